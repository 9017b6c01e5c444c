package moderation

// Community report thresholds. Crossing the flag threshold hides nothing but
// marks the content for review; crossing the remove threshold takes it down
// without waiting for a moderator.
const (
	PlaceFlagThreshold     = 3
	PlaceRemoveThreshold   = 7
	CommentFlagThreshold   = 3
	CommentRemoveThreshold = 5
)

const (
	TargetPlace   = "place"
	TargetComment = "comment"
)

// Actions recorded in the audit log.
const (
	ActionAutoFlag      = "auto_flag"
	ActionAutoRemove    = "auto_remove"
	ActionRemove        = "remove"
	ActionRestore       = "restore"
	ActionDismissReport = "dismiss_report"
)

// Report reasons accepted from the community.
var ReportReasons = []string{
	"gore_or_violence",
	"nudity_or_sexual",
	"hate_or_harassment",
	"spam_or_scam",
	"misleading_or_fake",
	"other",
}

func IsValidReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

func IsValidTargetType(targetType string) bool {
	return targetType == TargetPlace || targetType == TargetComment
}

// Decision is the outcome of evaluating the community thresholds against a
// target's current state.
type Decision struct {
	NextStatus string
	Action     string
}

// Transition reports whether the decision changes anything.
func (d Decision) Transition() bool {
	return d.Action != ""
}

// Decide evaluates the auto-moderation thresholds for a target. status is the
// target's current visibility status and openReports the live count of open
// reports against it. Remove takes precedence over flag; flagging only applies
// to content still in its normal visible state, so re-evaluating an already
// transitioned target at the same count is a no-op.
func Decide(targetType, status string, openReports int) Decision {
	flagAt, removeAt := PlaceFlagThreshold, PlaceRemoveThreshold
	visible := "approved"
	if targetType == TargetComment {
		flagAt, removeAt = CommentFlagThreshold, CommentRemoveThreshold
		visible = "active"
	}

	switch {
	case openReports >= removeAt && status != "removed":
		return Decision{NextStatus: "removed", Action: ActionAutoRemove}
	case openReports >= flagAt && status == visible:
		return Decision{NextStatus: "flagged", Action: ActionAutoFlag}
	default:
		return Decision{NextStatus: status}
	}
}
