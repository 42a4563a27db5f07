package models

// Collection names in the backing document store. The casing is inherited
// from the data already in production and must not be normalized.
const (
	CollectionStudents         = "students"
	CollectionEnrolledModules  = "enrolledModules"
	CollectionAttended         = "Attended"
	CollectionAssignedLectures = "assignedLectures"
	CollectionStaff            = "staff"
	CollectionFaculties        = "faculties"
)
