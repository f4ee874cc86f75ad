// Package assemble builds canonical Events out of raw source records. One
// assembler is shared by every origin; origins differ only in the field-name
// mapping they supply and in how their records expose nested sub-entities.
package assemble

// Record is one raw source record. Field reports (value, true) when the named
// field is structurally present — possibly with empty text — and ("", false)
// when the source carries no value at all. The two cases are distinct on
// purpose: absent resolves to null downstream, empty text stays empty text.
type Record interface {
	Field(name string) (string, bool)

	// Contacts and Venues return the nested sub-records the contact and
	// venue builders run over. Tabular origins return themselves once,
	// since one row models exactly one contact and one venue.
	Contacts() []Record
	Venues() []Record

	// Industries returns the industry names carried by the record, already
	// as plain text. Never nil.
	Industries() []string
}

// optional converts a Field lookup into a nullable value: absent fields
// become nil, present fields keep their text (empty included).
func optional(rec Record, name string) *string {
	if name == "" {
		return nil
	}
	v, ok := rec.Field(name)
	if !ok {
		return nil
	}
	return &v
}
