package moderation

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		targetType  string
		status      string
		openReports int
		wantStatus  string
		wantAction  string
	}{
		{"place below flag threshold", TargetPlace, "approved", 2, "approved", ""},
		{"place at flag threshold", TargetPlace, "approved", 3, "flagged", ActionAutoFlag},
		{"place between thresholds stays flagged", TargetPlace, "flagged", 5, "flagged", ""},
		{"place at remove threshold", TargetPlace, "flagged", 7, "removed", ActionAutoRemove},
		{"place straight to removed", TargetPlace, "approved", 7, "removed", ActionAutoRemove},
		{"removed place never re-removed", TargetPlace, "removed", 9, "removed", ""},
		{"pending place not flagged", TargetPlace, "pending", 3, "pending", ""},
		{"comment at flag threshold", TargetComment, "active", 3, "flagged", ActionAutoFlag},
		{"comment at remove threshold", TargetComment, "flagged", 5, "removed", ActionAutoRemove},
		{"comment below flag threshold", TargetComment, "active", 2, "active", ""},
		{"flagged comment not re-flagged", TargetComment, "flagged", 4, "flagged", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.targetType, tt.status, tt.openReports)
			if got.NextStatus != tt.wantStatus {
				t.Errorf("NextStatus = %q, want %q", got.NextStatus, tt.wantStatus)
			}
			if got.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", got.Action, tt.wantAction)
			}
			if got.Transition() != (tt.wantAction != "") {
				t.Errorf("Transition() = %v, want %v", got.Transition(), tt.wantAction != "")
			}
		})
	}
}

func TestIsValidReason(t *testing.T) {
	for _, reason := range ReportReasons {
		if !IsValidReason(reason) {
			t.Errorf("IsValidReason(%q) = false", reason)
		}
	}
	if IsValidReason("because") {
		t.Error("IsValidReason accepted an unknown reason")
	}
	if IsValidReason("") {
		t.Error("IsValidReason accepted the empty string")
	}
}

func TestActor(t *testing.T) {
	community := Community()
	if !community.IsCommunity() {
		t.Error("Community actor not recognized as community")
	}
	if community.Name != "community" {
		t.Errorf("community actor name = %q", community.Name)
	}

	mod := Human(42, "sam")
	if mod.IsCommunity() {
		t.Error("human actor recognized as community")
	}
	if mod.ID == nil || *mod.ID != 42 {
		t.Errorf("human actor id = %v, want 42", mod.ID)
	}
}
