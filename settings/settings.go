// Package settings loads and validates the credentials and options of
// ynamazon.
//
// Settings come from, lowest priority first: built-in defaults, an optional
// .toml or .yaml config file, a .env file in the working directory, and the
// process environment.
package settings

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidSetting is returned when a setting is missing or malformed.
	ErrInvalidSetting = errors.New("invalid setting")
	// ErrMissingOptionalSetting is returned when a setting required only by
	// some commands is missing.
	ErrMissingOptionalSetting = errors.New("missing optional setting")
)

// Settings of ynamazon. Field tags name the config file keys; environment
// variables are the upper case keys.
type Settings struct {
	AmazonUser     string `toml:"amazon_user" yaml:"amazon_user"`
	AmazonPassword Secret `toml:"amazon_password" yaml:"amazon_password"`
	AmazonBaseURL  string `toml:"amazon_base_url" yaml:"amazon_base_url"`

	YNABAPIKey                       APIKey   `toml:"ynab_api_key" yaml:"ynab_api_key"`
	YNABBudgetID                     BudgetID `toml:"ynab_budget_id" yaml:"ynab_budget_id"`
	YNABPayeeNameToBeProcessed       string   `toml:"ynab_payee_name_to_be_processed" yaml:"ynab_payee_name_to_be_processed"`
	YNABPayeeNameProcessingCompleted string   `toml:"ynab_payee_name_processing_completed" yaml:"ynab_payee_name_processing_completed"`
	YNABUseMarkdown                  bool     `toml:"ynab_use_markdown" yaml:"ynab_use_markdown"`

	UseAISummarization bool   `toml:"use_ai_summarization" yaml:"use_ai_summarization"`
	GeminiAPIKey       APIKey `toml:"gemini_api_key" yaml:"gemini_api_key"`

	Currency  string `toml:"currency" yaml:"currency"`
	CacheDir  string `toml:"ynamazon_cache_dir" yaml:"ynamazon_cache_dir"`
	RedisAddr string `toml:"ynamazon_redis_addr" yaml:"ynamazon_redis_addr"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Settings {
	return Settings{
		YNABPayeeNameToBeProcessed:       "Amazon - Needs Memo",
		YNABPayeeNameProcessingCompleted: "Amazon",
		Currency:                         "USD",
	}
}

// Load returns the settings from configFile (optional), .env and the
// environment. The returned Settings have NOT been validated.
func Load(configFile string) (*Settings, error) {
	dotenv, err := godotenv.Read(".env")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot read .env: %w", err)
	}
	return load(configFile, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})
}

func load(configFile string, lookup func(string) (string, bool)) (*Settings, error) {
	s := Defaults()
	if configFile != "" {
		if err := decodeFile(configFile, &s); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&s, lookup); err != nil {
		return nil, err
	}
	return &s, nil
}

// decodeFile decodes a .toml or .yaml config file. Unknown keys are errors.
func decodeFile(path string, s *Settings) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("config file %s does not exist: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("config file %s is not a file", path)
	}

	switch filepath.Ext(path) {
	case ".toml":
		md, err := toml.DecodeFile(path, s)
		if err != nil {
			return fmt.Errorf("cannot decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("%w: unknown keys in %s: %v", ErrInvalidSetting, path, undecoded)
		}
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil {
			return fmt.Errorf("%w: cannot decode %s: %w", ErrInvalidSetting, path, err)
		}
	default:
		return fmt.Errorf("config file %s must be a .toml or .yaml file", path)
	}
	return nil
}

func applyEnv(s *Settings, lookup func(string) (string, bool)) error {
	str := func(p *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*p = v
		}
	}
	var errs []error
	boolean := func(p *bool, key string) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidSetting, key, v))
			return
		}
		*p = b
	}

	str(&s.AmazonUser, "AMAZON_USER")
	str((*string)(&s.AmazonPassword), "AMAZON_PASSWORD")
	str(&s.AmazonBaseURL, "AMAZON_BASE_URL")

	str((*string)(&s.YNABAPIKey), "YNAB_API_KEY")
	str((*string)(&s.YNABBudgetID), "YNAB_BUDGET_ID")
	str(&s.YNABPayeeNameToBeProcessed, "YNAB_PAYEE_NAME_TO_BE_PROCESSED")
	str(&s.YNABPayeeNameProcessingCompleted, "YNAB_PAYEE_NAME_PROCESSING_COMPLETED")
	boolean(&s.YNABUseMarkdown, "YNAB_USE_MARKDOWN")

	boolean(&s.UseAISummarization, "USE_AI_SUMMARIZATION")
	str((*string)(&s.GeminiAPIKey), "GEMINI_API_KEY")

	str(&s.Currency, "CURRENCY")
	str(&s.CacheDir, "YNAMAZON_CACHE_DIR")
	str(&s.RedisAddr, "YNAMAZON_REDIS_ADDR")

	return errors.Join(errs...)
}

// Validate checks the settings every command needs and returns all the
// problems at once.
func (s *Settings) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidSetting, fmt.Sprintf(format, args...)))
	}

	switch {
	case s.AmazonUser == "":
		invalid("AMAZON_USER is required")
	case !isEmail(s.AmazonUser):
		invalid("AMAZON_USER %q is not an email address", s.AmazonUser)
	}
	if !s.AmazonPassword.IsSet() {
		invalid("AMAZON_PASSWORD is required")
	}
	if s.UseAISummarization && !s.GeminiAPIKey.IsSet() {
		invalid("GEMINI_API_KEY is required when USE_AI_SUMMARIZATION is set")
	}
	if money.GetCurrency(s.Currency) == nil {
		invalid("CURRENCY %q is not a known currency code", s.Currency)
	}
	if strings.TrimSpace(s.YNABPayeeNameToBeProcessed) == "" || strings.TrimSpace(s.YNABPayeeNameProcessingCompleted) == "" {
		invalid("YNAB payee names must not be empty")
	}
	return errors.Join(errs...)
}

// RequireYNAB checks the settings of commands talking to YNAB.
func (s *Settings) RequireYNAB() error {
	var errs []error
	if !s.YNABAPIKey.IsSet() {
		errs = append(errs, fmt.Errorf("%w: YNAB_API_KEY", ErrMissingOptionalSetting))
	}
	if !s.YNABBudgetID.IsSet() {
		errs = append(errs, fmt.Errorf("%w: YNAB_BUDGET_ID", ErrMissingOptionalSetting))
	}
	return errors.Join(errs...)
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

// Redacted returns a copy of s safe to print or log: secrets are replaced by
// their masked form.
func (s *Settings) Redacted() Settings {
	out := *s
	out.AmazonPassword = Secret(s.AmazonPassword.String())
	out.YNABAPIKey = APIKey(s.YNABAPIKey.String())
	out.YNABBudgetID = BudgetID(s.YNABBudgetID.String())
	out.GeminiAPIKey = APIKey(s.GeminiAPIKey.String())
	return out
}
