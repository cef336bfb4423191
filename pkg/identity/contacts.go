package identity

// ContactMap maps normalized phone numbers to display names. The map grows as records are processed and
// is passed explicitly to whatever needs it; nothing in this module keeps one in package state.
type ContactMap map[string]string

func NewContactMap() ContactMap {
	return ContactMap{}
}

// Set records name for number. Unknown placeholder names and empty numbers are ignored so they never
// shadow a real name learned earlier.
func (c ContactMap) Set(number, name string) {
	if number == "" || IsUnknownName(name) {
		return
	}
	c[number] = name
}

func (c ContactMap) Get(number string) (string, bool) {
	name, ok := c[number]
	return name, ok
}

// Merge copies every entry of other into c, replacing existing entries.
func (c ContactMap) Merge(other ContactMap) {
	for number, name := range other {
		c[number] = name
	}
}

func (c ContactMap) Clone() ContactMap {
	clone := make(ContactMap, len(c))
	clone.Merge(c)
	return clone
}

// NameFor resolves number through each map in order and falls back to the formatted number, so it
// always returns something printable.
func NameFor(number string, maps ...ContactMap) string {
	for _, m := range maps {
		if name, ok := m[number]; ok && name != "" {
			return name
		}
	}
	return FormatNumber(number)
}
