package barcode

// MissPolicy determines what a Lookup returns for an absent key.
type MissPolicy int

const (
	// MissDefault returns the lookup's fixed default value.
	MissDefault MissPolicy = iota
	// MissMirror returns the queried key itself.
	MissMirror
)

// Lookup is a string-to-string table with a configurable answer for
// absent keys. Registries are MissDefault lookups from barcodes to
// codes; correction indexes are MissMirror lookups from observed to
// canonical barcodes.
type Lookup struct {
	m      map[string]string
	policy MissPolicy
	def    string
}

func newLookup(policy MissPolicy, def string, sizeHint int) *Lookup {
	return &Lookup{
		m:      make(map[string]string, sizeHint),
		policy: policy,
		def:    def,
	}
}

// Get returns the value stored for key, or the miss value if key is
// absent.
func (l *Lookup) Get(key string) string {
	if v, ok := l.m[key]; ok {
		return v
	}
	if l.policy == MissMirror {
		return key
	}
	return l.def
}

// Find returns the value stored for key and whether it was present.
func (l *Lookup) Find(key string) (string, bool) {
	v, ok := l.m[key]
	return v, ok
}

// Len returns the number of stored keys.
func (l *Lookup) Len() int { return len(l.m) }

func (l *Lookup) set(key, value string) { l.m[key] = value }

func (l *Lookup) delete(key string) { delete(l.m, key) }
