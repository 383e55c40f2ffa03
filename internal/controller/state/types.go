package state

// ChatState is the chat's current step in a multi-step dialog.
type ChatState string

const (
	StateNone ChatState = ""

	// Login dialog
	StateLoginEmail    ChatState = "login_email"
	StateLoginPassword ChatState = "login_password"

	// Registration dialog
	StateRegisterName         ChatState = "register_name"
	StateRegisterEmail        ChatState = "register_email"
	StateRegisterPassword     ChatState = "register_password"
	StateRegisterRole         ChatState = "register_role"
	StateRegisterOrganisation ChatState = "register_organisation"

	// Lesson creation dialog
	StateNewLessonDate     ChatState = "new_lesson_date"
	StateNewLessonTime     ChatState = "new_lesson_time"
	StateNewLessonLocation ChatState = "new_lesson_location"
	StateNewLessonPrice    ChatState = "new_lesson_price"
	StateNewLessonStudents ChatState = "new_lesson_students" // free text filters the picker
)

// ChatData holds the dialog step and the values collected so far.
type ChatData struct {
	State ChatState
	Data  map[string]interface{}
}

// Scratch data keys. The calendar view keys survive StateNone so that
// navigation callbacks can reuse the held lessons.
const (
	KeyViewLessons = "view_lessons" // service.Feed
	KeyViewRole    = "view_role"    // model.Role
	KeyViewName    = "view_name"    // viewer display name
	KeyViewAnchor  = "view_anchor"  // time.Time, first of the viewed month
	KeyViewOrg     = "view_org"     // viewer organisation id
	KeyViewError   = "view_error"   // error banner text from the last fetch

	KeyLoginEmail = "login_email"

	KeyRegisterName     = "register_name"
	KeyRegisterEmail    = "register_email"
	KeyRegisterPassword = "register_password"
	KeyRegisterRole     = "register_role"

	KeyDraftDate     = "draft_date"
	KeyDraftTime     = "draft_time"
	KeyDraftLocation = "draft_location"
	KeyDraftPrice    = "draft_price"
	KeyDraftStudents = "draft_students" // []int64, selected student ids
	KeyDraftFilter   = "draft_filter"   // current picker query
	KeyDraftPage     = "draft_page"     // picker page
	KeyDirectory     = "directory"      // []model.Participant, fetched once per dialog
)

// dialogKeys are the scratch values ResetDialog drops. View keys are not
// listed on purpose.
var dialogKeys = []string{
	KeyLoginEmail,
	KeyRegisterName,
	KeyRegisterEmail,
	KeyRegisterPassword,
	KeyRegisterRole,
	KeyDraftDate,
	KeyDraftTime,
	KeyDraftLocation,
	KeyDraftPrice,
	KeyDraftStudents,
	KeyDraftFilter,
	KeyDraftPage,
	KeyDirectory,
}
