package userstream

// ListID is the numerical ID of a list.
type ListID int64

// ListMode is the visibility of a list.
type ListMode string

const (
	ListPublic  ListMode = "public"
	ListPrivate ListMode = "private"
)

// List is the payload of the list_* events.
type List struct {
	ID              ListID    `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	URI             string    `json:"uri"`
	Mode            ListMode  `json:"mode"`
	MemberCount     uint64    `json:"member_count"`
	SubscriberCount uint64    `json:"subscriber_count"`
	Following       bool      `json:"following"`
	CreatedAt       Timestamp `json:"created_at"`
	User            *User     `json:"user"`
}
