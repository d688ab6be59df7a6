package models

import "fmt"

// TruthSource is the name reserved for the baseline record set.
const TruthSource = "Truth"

// RecordType identifies the kind of network entity a record describes.
type RecordType string

const (
	RecordTypeIP         RecordType = "ip"
	RecordTypeCIDR       RecordType = "cidr"
	RecordTypeHostSubnet RecordType = "hostsubnet"
)

// AllRecordTypes returns every supported record type in canonical order.
func AllRecordTypes() []RecordType {
	return []RecordType{RecordTypeIP, RecordTypeCIDR, RecordTypeHostSubnet}
}

// Valid reports whether t is one of the supported record types.
func (t RecordType) Valid() bool {
	switch t {
	case RecordTypeIP, RecordTypeCIDR, RecordTypeHostSubnet:
		return true
	default:
		return false
	}
}

// Record is a single network entity as asserted by one source.
// Fields holds every attribute other than name and type; a field missing
// from the map is absent, which is distinct from a null value.
type Record struct {
	Name   string
	Type   RecordType
	Fields map[string]Value
}

// NewRecord builds a record from its identity and field values.
func NewRecord(name string, recordType RecordType, fields map[string]Value) Record {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return Record{
		Name:   name,
		Type:   recordType,
		Fields: fields,
	}
}

// Field looks up a field by name. "name" and "type" resolve to the
// record's identity.
func (r Record) Field(name string) Value {
	switch name {
	case "name":
		return String(r.Name)
	case "type":
		return String(string(r.Type))
	}
	if v, ok := r.Fields[name]; ok {
		return v
	}
	return Absent()
}

// Source is a named contributor of network records.
type Source struct {
	Name     string
	Networks []Record
}

func (r Record) String() string {
	return fmt.Sprintf("%s-%s", r.Name, r.Type)
}
