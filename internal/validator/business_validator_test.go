package validator

import "testing"

func TestBusinessRules(t *testing.T) {
	v := New()

	t.Run("valid scan request passes", func(t *testing.T) {
		req := RecordAttendanceRequest{
			ModuleCode:    "CS100",
			Date:          "2025-03-14",
			StudentNumber: "22008452",
		}
		if errs := v.ValidateStruct(req); len(errs) > 0 {
			t.Fatalf("Expected no errors, got %v", errs)
		}
	})

	t.Run("student_number rule", func(t *testing.T) {
		cases := map[string]bool{
			"22008452":  true,
			"2200845":   false,
			"220084521": false,
			"2200845a":  false,
			"":          false,
		}
		for value, valid := range cases {
			req := RecordAttendanceRequest{
				ModuleCode:    "CS100",
				Date:          "2025-03-14",
				StudentNumber: value,
			}
			errs := v.ValidateStruct(req)
			if valid && len(errs) > 0 {
				t.Errorf("Expected %q to be valid, got %v", value, errs)
			}
			if !valid && len(errs) == 0 {
				t.Errorf("Expected %q to be rejected", value)
			}
		}
	})

	t.Run("module_code rule", func(t *testing.T) {
		cases := map[string]bool{
			"CS100":    true,
			"ACCOUN12": true,
			"IT2000":   true,
			"cs100":    false,
			"C100":     false,
			"CS":       false,
			"100CS":    false,
		}
		for value, valid := range cases {
			req := RequestEnrollmentRequest{
				ModuleCode:    value,
				StudentNumber: "22008452",
			}
			errs := v.ValidateStruct(req)
			if valid && len(errs) > 0 {
				t.Errorf("Expected %q to be valid, got %v", value, errs)
			}
			if !valid && len(errs) == 0 {
				t.Errorf("Expected %q to be rejected", value)
			}
		}
	})

	t.Run("scan_date rule", func(t *testing.T) {
		cases := map[string]bool{
			"2025-03-14": true,
			"2025-02-30": false,
			"14-03-2025": false,
			"2025/03/14": false,
			"today":      false,
		}
		for value, valid := range cases {
			req := RetroactiveAttendanceRequest{
				ModuleCode:    "CS100",
				Date:          value,
				StudentNumber: "22008452",
			}
			errs := v.ValidateStruct(req)
			if valid && len(errs) > 0 {
				t.Errorf("Expected %q to be valid, got %v", value, errs)
			}
			if !valid && len(errs) == 0 {
				t.Errorf("Expected %q to be rejected", value)
			}
		}
	})

	t.Run("email rule", func(t *testing.T) {
		if errs := v.ValidateStruct(UpdateEmailRequest{NewEmail: "22008452@live.mut.ac.za"}); len(errs) > 0 {
			t.Errorf("Expected valid email to pass, got %v", errs)
		}
		errs := v.ValidateStruct(UpdateEmailRequest{NewEmail: "not-an-email"})
		if len(errs) != 1 {
			t.Fatalf("Expected one field error, got %v", errs)
		}
		if errs[0].Field != "NewEmail" || errs[0].Rule != "email" {
			t.Errorf("Unexpected field error: %+v", errs[0])
		}
	})

	t.Run("error messages name the failed rule", func(t *testing.T) {
		errs := v.ValidateStruct(RecordAttendanceRequest{})
		if len(errs) != 3 {
			t.Fatalf("Expected 3 required-field errors, got %v", errs)
		}
		for _, fieldErr := range errs {
			if fieldErr.Message != "is required" {
				t.Errorf("Expected required message for %s, got %q", fieldErr.Field, fieldErr.Message)
			}
		}
	})
}
