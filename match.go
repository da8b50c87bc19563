package ynamazon

// Matcher pairs budget transactions with joined records by amount. Each
// record is used at most once.
type Matcher struct {
	records []TransactionWithOrderInfo
	used    []bool
}

// NewMatcher returns a Matcher over records.
func NewMatcher(records []TransactionWithOrderInfo) *Matcher {
	return &Matcher{records: records, used: make([]bool, len(records))}
}

// Match returns the first unused record charging -amount. Budget amounts are
// negative for outflows while TransactionTotal is a positive charge.
func (m *Matcher) Match(amount Milliunits) (TransactionWithOrderInfo, bool) {
	for i, r := range m.records {
		if !m.used[i] && r.TransactionTotal == amount.Neg() {
			m.used[i] = true
			return r, true
		}
	}
	return TransactionWithOrderInfo{}, false
}

// Unused returns the records not matched yet, in their original order.
func (m *Matcher) Unused() []TransactionWithOrderInfo {
	var out []TransactionWithOrderInfo
	for i, r := range m.records {
		if !m.used[i] {
			out = append(out, r)
		}
	}
	return out
}
