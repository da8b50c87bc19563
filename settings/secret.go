package settings

// Secret is a sensitive setting. Every way of printing it masks the value,
// including %v, %#v, JSON and zerolog fields; only Reveal returns it.
type Secret string

// Reveal returns the secret value.
func (s Secret) Reveal() string { return string(s) }

func (s Secret) String() string               { return mask(string(s), 0) }
func (s Secret) GoString() string             { return s.String() }
func (s Secret) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s Secret) IsSet() bool                  { return s != "" }

// APIKey is a Secret that shows a few characters, to tell keys apart.
type APIKey string

func (s APIKey) Reveal() string               { return string(s) }
func (s APIKey) String() string               { return maskAPIKey(string(s)) }
func (s APIKey) GoString() string             { return s.String() }
func (s APIKey) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s APIKey) IsSet() bool                  { return s != "" }

// BudgetID is a Secret that shows its ends.
type BudgetID string

func (s BudgetID) Reveal() string               { return string(s) }
func (s BudgetID) String() string               { return mask(string(s), 4) }
func (s BudgetID) GoString() string             { return s.String() }
func (s BudgetID) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s BudgetID) IsSet() bool                  { return s != "" }

const empty = "****empty****"

// maskAPIKey shows the first and last 4 characters of long keys, the last 2
// of medium keys, and nothing of short ones.
func maskAPIKey(s string) string {
	switch {
	case s == "":
		return empty
	case len(s) > 16:
		return s[:4] + "****" + s[len(s)-4:]
	case len(s) > 8:
		return "******" + s[len(s)-2:]
	default:
		return "********"
	}
}

// mask shows n characters at both ends of s, provided that leaves most of it
// hidden.
func mask(s string, n int) string {
	switch {
	case s == "":
		return empty
	case n == 0 || len(s) <= 4*n:
		return "********"
	default:
		return s[:n] + "****" + s[len(s)-n:]
	}
}
