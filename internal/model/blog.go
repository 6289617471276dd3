package model

// BlogPost is a publicly readable post; mutation and deletion are
// restricted to the author. The feed is ordered by CreatedAt
// descending with UUID ascending as the tie breaker, which is also
// the anchor the pagination cursor encodes.
type BlogPost struct {
	UUID       string // blog_posts.uuid
	AuthorUUID string // blog_posts.author_uuid
	Title      string // blog_posts.title
	Content    string // blog_posts.content
	CreatedAt  int64  // blog_posts.created_at
}
