// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// Event types carried on the activity queue.
const (
	TypeAccountRegistered = "account.registered"
	TypeBlogPublished     = "blog.published"
)

// ActivityEvent is the envelope published for every domain event.
// Type selects which of the optional fields are set; the payload
// carries enough information for downstream consumers to log or
// notify without querying the primary database.
type ActivityEvent struct {
	Type string `json:"type"`

	// account.registered
	AccountUUID string `json:"account_uuid,omitempty"`
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`

	// blog.published
	BlogUUID   string `json:"blog_uuid,omitempty"`
	AuthorUUID string `json:"author_uuid,omitempty"`
	Title      string `json:"title,omitempty"`

	OccurredAt string `json:"occurred_at"`
}
