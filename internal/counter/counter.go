// Package counter measures curated text for corpus statistics.
//
// Counting strategies are token counting (tiktoken), word counting, and
// character counting. Token counting defaults to the r50k_base encoding,
// the byte-pair vocabulary used by GPT-2, so totals line up with the
// tokenizers most pretraining corpora are measured with.
//
// Usage Example:
//
//	c, err := counter.NewCounter(counter.Tokens)
//	if err != nil {
//		return err
//	}
//	total := counter.Total(counter.WithEOS(c), docs)
package counter

// DefaultEncoding is the tiktoken encoding used when none is configured.
const DefaultEncoding = "r50k_base"

// Counter defines the interface for different text counting strategies.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in given text.
	Count(text string) int

	// Name returns a human-readable name for this counting method (for logging)
	Name() string
}

// CountingMethod represents the different available counting strategies.
type CountingMethod int

const (
	// Tokens uses tiktoken (default)
	Tokens CountingMethod = iota
	// Words counts words using whitespace splitting
	Words
	// Characters counts individual characters including whitespace
	Characters
)

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// ParseMethod resolves a configured counting method name.
func ParseMethod(name string) (CountingMethod, bool) {
	switch name {
	case "", "tokens":
		return Tokens, true
	case "words":
		return Words, true
	case "characters", "chars":
		return Characters, true
	default:
		return Tokens, false
	}
}

// NewCounter creates a Counter for the given method. Token counters use
// DefaultEncoding; call NewTokenCounter directly for another encoding.
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Words:
		return NewWordCounter(), nil
	case Characters:
		return NewCharCounter(), nil
	default:
		tc, err := NewTokenCounter(DefaultEncoding)
		if err != nil {
			return nil, err
		}
		return tc, nil
	}
}

// Total sums c over every text.
func Total(c Counter, texts []string) int {
	total := 0
	for _, text := range texts {
		total += c.Count(text)
	}
	return total
}

// eosCounter adds one end-of-text token per non-empty document
type eosCounter struct {
	Counter
}

// WithEOS wraps c so each non-empty text also counts one end-of-text token,
// matching how documents are packed for training.
func WithEOS(c Counter) Counter {
	return eosCounter{Counter: c}
}

func (e eosCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return e.Counter.Count(text) + 1
}

func (e eosCounter) Name() string {
	return e.Counter.Name() + " + eos"
}
