package domain

// NoticeEvent names the real-time events pushed over an active socket.
type NoticeEvent string

const (
	NoticeBid    NoticeEvent = "bid"
	NoticeHired  NoticeEvent = "hired"
	NoticeReview NoticeEvent = "review"
)

// Notice is the payload pushed to a connected user. Delivery is best-effort:
// attempted once against the recipient's live connection, dropped silently
// when the recipient is offline.
type Notice struct {
	Event     NoticeEvent `json:"event"`
	Message   string      `json:"message"`
	ProjectID int64       `json:"projectId"`
}
