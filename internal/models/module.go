package models

// Module holds the static metadata for a taught module. The module code is
// immutable once created.
type Module struct {
	ModuleCode string `json:"moduleCode" validate:"required,module_code"`
	ModuleName string `json:"moduleName" validate:"required,max=200"`
	Level      string `json:"moduleLevel"`
	Department string `json:"department"`
	Faculty    string `json:"faculty"`

	// ScannerOpenCount increases every time a lecturer opens an attendance
	// session for this module. It is the denominator of the attendance rate.
	ScannerOpenCount int `json:"scannerOpenCount"`
}

// AssignedLectures is one document in the `assignedLectures` collection,
// keyed by staff number. A module may appear under more than one staff
// document (or more than once after reassignment); the aggregator sums every
// occurrence of its scannerOpenCount.
type AssignedLectures struct {
	StaffNumber string   `json:"staffNumber"`
	Modules     []Module `json:"modules"`
}
