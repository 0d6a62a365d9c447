package domain

// RoleProfile is the role-specific portion of a user record. Each role
// carries at most one concrete variant; a Customer carries none. Modelling
// this as a closed interface instead of a bag of nullable fields makes
// impossible states (a Customer with vehicle data) unrepresentable.
type RoleProfile interface {
	profileKind() string
}

// BusinessProfile holds restaurant and payment data for the Biller role.
type BusinessProfile struct {
	RestaurantName  string `json:"restaurant_name"`
	BusinessLicense string `json:"business_license"`
	TaxID           string `json:"tax_id"`
	UpiID           string `json:"upi_id,omitempty"`
	BusinessPhone   string `json:"business_phone,omitempty"`
}

// EmployeeProfile holds staff data for the Operator and Worker roles.
type EmployeeProfile struct {
	EmployeeID string `json:"employee_id"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

// DeliveryProfile holds vehicle and license data for the DeliveryAgent role.
type DeliveryProfile struct {
	EmployeeID     string `json:"employee_id"`
	VehicleType    string `json:"vehicle_type"`
	LicensePlate   string `json:"license_plate"`
	DriversLicense string `json:"drivers_license"`
}

// TechProfile holds IT staff data for the Developer, Tester, NetworkAdmin
// and DatabaseAdmin roles.
type TechProfile struct {
	EmployeeID     string `json:"employee_id"`
	Specialization string `json:"specialization"`
	Department     string `json:"department"`
}

func (*BusinessProfile) profileKind() string { return "business" }
func (*EmployeeProfile) profileKind() string { return "employee" }
func (*DeliveryProfile) profileKind() string { return "delivery" }
func (*TechProfile) profileKind() string     { return "tech" }
