package models

import "time"

// API-facing shapes. Timestamps serialize as ISO calendar dates (YYYY-MM-DD);
// the clients only ever render day granularity.

// FormatAPIDate renders a timestamp in the external date form.
func FormatAPIDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// OrganizationView is the API shape of an Organization, with the type column
// deserialized into its tag list.
type OrganizationView struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Type                 []OrgType `json:"type"`
	Description          string    `json:"description"`
	Website              *string   `json:"website,omitempty"`
	Email                *string   `json:"email,omitempty"`
	Location             *string   `json:"location,omitempty"`
	ContactInternal      string    `json:"contactInternal"`
	CurrentNeedsInternal string    `json:"currentNeedsInternal"`
	ResourcesOffered     string    `json:"resourcesOffered"`
}

// View converts a stored organization row to its API shape.
func (o *Organization) View() OrganizationView {
	return OrganizationView{
		ID:                   o.ID,
		Name:                 o.Name,
		Type:                 o.TypeTags(),
		Description:          o.Description,
		Website:              o.Website,
		Email:                o.Email,
		Location:             o.Location,
		ContactInternal:      o.ContactInternal,
		CurrentNeedsInternal: o.CurrentNeedsInternal,
		ResourcesOffered:     o.ResourcesOffered,
	}
}

// OrganizationViews converts a slice of rows, returning an empty (non-nil)
// slice for empty input so list endpoints serialize as [].
func OrganizationViews(orgs []Organization) []OrganizationView {
	views := make([]OrganizationView, 0, len(orgs))
	for i := range orgs {
		views = append(views, orgs[i].View())
	}
	return views
}

// ForumView is the API shape of a Forum.
type ForumView struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Category      ForumCategory `json:"category"`
	Description   string        `json:"description"`
	CreatedAt     string        `json:"createdAt"`
	PostCount     int           `json:"postCount"`
	LastActivity  string        `json:"lastActivity"`
	MemberCount   int           `json:"memberCount"`
	MessagesToday int           `json:"messagesToday"`
}

func (f *Forum) View() ForumView {
	return ForumView{
		ID:            f.ID,
		Title:         f.Title,
		Category:      f.Category,
		Description:   f.Description,
		CreatedAt:     FormatAPIDate(f.CreatedAt),
		PostCount:     f.PostCount,
		LastActivity:  FormatAPIDate(f.LastActivity),
		MemberCount:   f.MemberCount,
		MessagesToday: f.MessagesToday,
	}
}

func ForumViews(forums []Forum) []ForumView {
	views := make([]ForumView, 0, len(forums))
	for i := range forums {
		views = append(views, forums[i].View())
	}
	return views
}

// ForumPostView is the API shape of a ForumPost.
type ForumPostView struct {
	ID            string  `json:"id"`
	ForumID       string  `json:"forumId"`
	AuthorOrgID   string  `json:"authorOrgId"`
	AuthorOrgName string  `json:"authorOrgName"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     *string `json:"updatedAt,omitempty"`
	ReplyCount    int     `json:"replyCount"`
}

func (p *ForumPost) View() ForumPostView {
	view := ForumPostView{
		ID:            p.ID,
		ForumID:       p.ForumID,
		AuthorOrgID:   p.AuthorOrgID,
		AuthorOrgName: p.AuthorOrgName,
		Title:         p.Title,
		Content:       p.Content,
		CreatedAt:     FormatAPIDate(p.CreatedAt),
		ReplyCount:    p.ReplyCount,
	}
	if p.UpdatedAt != nil {
		formatted := FormatAPIDate(*p.UpdatedAt)
		view.UpdatedAt = &formatted
	}
	return view
}

func ForumPostViews(posts []ForumPost) []ForumPostView {
	views := make([]ForumPostView, 0, len(posts))
	for i := range posts {
		views = append(views, posts[i].View())
	}
	return views
}

// ForumReplyView is the API shape of a ForumReply.
type ForumReplyView struct {
	ID            string `json:"id"`
	PostID        string `json:"postId"`
	AuthorOrgID   string `json:"authorOrgId"`
	AuthorOrgName string `json:"authorOrgName"`
	Content       string `json:"content"`
	CreatedAt     string `json:"createdAt"`
}

func (r *ForumReply) View() ForumReplyView {
	return ForumReplyView{
		ID:            r.ID,
		PostID:        r.PostID,
		AuthorOrgID:   r.AuthorOrgID,
		AuthorOrgName: r.AuthorOrgName,
		Content:       r.Content,
		CreatedAt:     FormatAPIDate(r.CreatedAt),
	}
}

func ForumReplyViews(replies []ForumReply) []ForumReplyView {
	views := make([]ForumReplyView, 0, len(replies))
	for i := range replies {
		views = append(views, replies[i].View())
	}
	return views
}

// ActivityItemView is a post augmented with its owning forum's title and
// category, for the cross-forum recent activity feed.
type ActivityItemView struct {
	ForumPostView
	ForumTitle    string        `json:"forumTitle"`
	ForumCategory ForumCategory `json:"forumCategory"`
}

// UserView is the API shape of a User. The password hash never leaves the
// store layer.
type UserView struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	OrganizationID *string `json:"organizationId"`
	CreatedAt      string  `json:"createdAt"`
}

func (u *User) View() UserView {
	return UserView{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		OrganizationID: u.OrganizationID,
		CreatedAt:      FormatAPIDate(u.CreatedAt),
	}
}
