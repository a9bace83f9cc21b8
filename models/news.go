package models

// MaxNewsImages caps the number of images attached to one article.
const MaxNewsImages = 5

// News is an article on the public site. Only the author may update or
// delete it; images live in object storage and only their URLs are stored.
type News struct {
	ID        int       `json:"id"`
	Title     string    `json:"title" validate:"required,min=3,max=200"`
	Content   string    `json:"content" validate:"required,min=10"`
	Category  []string  `json:"category"`
	Important bool      `json:"important"`
	IsActive  bool      `json:"isActive"`
	Images    []string  `json:"images"`
	AuthorID  int       `json:"authorId"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt string    `json:"createdAt,omitempty"`
	UpdatedAt string    `json:"updatedAt,omitempty"`
}

// Author is the subset of the user record embedded in news responses.
type Author struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewsFilters narrows a news listing. Nil booleans mean "don't filter".
type NewsFilters struct {
	Category  string
	Important *bool
	IsActive  *bool
	Search    string
}
