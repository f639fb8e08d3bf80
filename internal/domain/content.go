package domain

import "time"

// BlogSection is one titled block of a blog post.
type BlogSection struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// BlogPost is an article from the blog endpoints.
type BlogPost struct {
	ID        string        `json:"_id,omitempty"`
	Title     string        `json:"title"`
	Content   string        `json:"content"` // HTML
	Category  string        `json:"category,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	MainImage string        `json:"mainImage,omitempty"`
	Sections  []BlogSection `json:"sections,omitempty"`
	Author    string        `json:"author,omitempty"`
	CreatedAt time.Time     `json:"createdAt,omitzero"`
}

// NewsSource is an outlet offered by the news proxy.
type NewsSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewsArticle is one headline from the news proxy.
type NewsArticle struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url"`
	URLToImage  string     `json:"urlToImage,omitempty"`
	PublishedAt time.Time  `json:"publishedAt,omitzero"`
	Source      NewsSource `json:"source"`
}

// NewsPage is one page of news results.
type NewsPage struct {
	Articles     []NewsArticle `json:"articles"`
	TotalResults int           `json:"totalResults"`
}

// Newsletter is an admin broadcast to subscribers.
type Newsletter struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}
