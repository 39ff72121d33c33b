package domain

type GalleryImage struct {
	ID           string  `json:"id"`
	ImageURL     string  `json:"image_url"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	DisplayOrder int     `json:"display_order"`
}

type Service struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	IconName     string `json:"icon_name"`
	DisplayOrder int    `json:"display_order"`
}

type SiteContent struct {
	ID           string `json:"id"`
	Page         string `json:"page"`
	Section      string `json:"section"`
	ContentKey   string `json:"content_key"`
	ContentValue string `json:"content_value"`
}

type SiteContentQuery struct {
	Page    string // empty lists every page
	Section string // empty lists every section of Page
}

type Story struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
}

type ContactInfo struct {
	ID        string  `json:"id"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Address   string  `json:"address"`
	WhatsApp  *string `json:"whatsapp,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
}

type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
}
