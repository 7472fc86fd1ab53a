package queue

const (
	TypeDiaryInsight = "diary:insight"
)

// DiaryInsightPayload asks a worker to analyse a stored diary entry.
type DiaryInsightPayload struct {
	DiaryID  string `json:"diary_id"`
	UserID   string `json:"user_id"`
	Language string `json:"language"`
}
