package enums

import "fmt"

// CustomerType classifies the buying institution.
type CustomerType string

const (
	CustomerTypeHospital   CustomerType = "hospital"
	CustomerTypeClinic     CustomerType = "clinic"
	CustomerTypeLaboratory CustomerType = "laboratory"
	CustomerTypePharmacy   CustomerType = "pharmacy"
	CustomerTypeResearch   CustomerType = "research"
	CustomerTypeOther      CustomerType = "other"
)

var validCustomerTypes = []CustomerType{
	CustomerTypeHospital,
	CustomerTypeClinic,
	CustomerTypeLaboratory,
	CustomerTypePharmacy,
	CustomerTypeResearch,
	CustomerTypeOther,
}

// String implements fmt.Stringer.
func (c CustomerType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerType.
func (c CustomerType) IsValid() bool {
	for _, candidate := range validCustomerTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerType converts raw input into a CustomerType.
func ParseCustomerType(value string) (CustomerType, error) {
	for _, candidate := range validCustomerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer type %q", value)
}
