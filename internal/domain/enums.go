package domain

type RecordType string

const (
	RecordMilestone RecordType = "MILESTONE"
	RecordTask      RecordType = "TASK"
)

type MilestoneStatus string

const (
	StatusNotStarted MilestoneStatus = "NOT_STARTED"
	StatusInProgress MilestoneStatus = "IN_PROGRESS"
	StatusCompleted  MilestoneStatus = "COMPLETED"
	StatusArchived   MilestoneStatus = "ARCHIVED"
)

// ValidMilestoneStatuses is the canonical set of accepted status strings
// for both milestones and tasks.
var ValidMilestoneStatuses = map[string]bool{
	"NOT_STARTED": true, "IN_PROGRESS": true,
	"COMPLETED": true, "ARCHIVED": true,
}

type MemberRole string

const (
	RoleParent      MemberRole = "PARENT"
	RoleCaregiver   MemberRole = "CAREGIVER"
	RoleTherapist   MemberRole = "THERAPIST"
	RoleEducator    MemberRole = "EDUCATOR"
	RoleCoordinator MemberRole = "COORDINATOR"
)

type MemberStatus string

const (
	MemberActive   MemberStatus = "ACTIVE"
	MemberPending  MemberStatus = "PENDING"
	MemberInactive MemberStatus = "INACTIVE"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

type PostStatus string

const (
	PostDraft     PostStatus = "DRAFT"
	PostPublished PostStatus = "PUBLISHED"
	PostFlagged   PostStatus = "FLAGGED"
	PostDeleted   PostStatus = "DELETED"
)

type QuestionCategory string

const (
	CategoryCommunication QuestionCategory = "COMMUNICATION"
	CategoryMotor         QuestionCategory = "MOTOR"
	CategorySocial        QuestionCategory = "SOCIAL"
	CategoryCognitive     QuestionCategory = "COGNITIVE"
	CategoryDailyLiving   QuestionCategory = "DAILY_LIVING"
)

// ValidQuestionCategories is the canonical set of accepted category strings.
var ValidQuestionCategories = map[string]bool{
	"COMMUNICATION": true, "MOTOR": true, "SOCIAL": true,
	"COGNITIVE": true, "DAILY_LIVING": true,
}
