package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DisplayDateLayout is used for dates shown on detail and list pages.
const DisplayDateLayout = "Jan 2, 2006"

// InputDateLayout is the value format of <input type="date">.
const InputDateLayout = "2006-01-02"

type BookInstanceStatus string

const (
	StatusAvailable   BookInstanceStatus = "Available"
	StatusMaintenance BookInstanceStatus = "Maintenance"
	StatusLoaned      BookInstanceStatus = "Loaned"
	StatusReserved    BookInstanceStatus = "Reserved"
)

// BookInstanceStatuses lists the statuses in the order the form offers them.
var BookInstanceStatuses = []BookInstanceStatus{
	StatusAvailable,
	StatusMaintenance,
	StatusLoaned,
	StatusReserved,
}

type Author struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	FamilyName  string     `gorm:"index;size:100;not null" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Free-text columns hold HTML-escaped input, which can be up to six times
// longer than the validated value, so they are not length-capped.

type Genre struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	AuthorID  uuid.UUID `gorm:"type:uuid;index;not null" json:"author_id"`
	Author    Author    `gorm:"foreignKey:AuthorID" json:"author"`
	Summary   string    `gorm:"type:text;not null" json:"summary"`
	ISBN      string    `gorm:"type:text;not null" json:"isbn"`
	Genres    []Genre   `gorm:"many2many:book_genres;" json:"genres,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookInstance struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	BookID    uuid.UUID          `gorm:"type:uuid;index;not null" json:"book_id"`
	Book      Book               `gorm:"foreignKey:BookID" json:"book"`
	Imprint   string             `gorm:"type:text;not null" json:"imprint"`
	Status    BookInstanceStatus `gorm:"index;size:20;not null;default:'Maintenance'" json:"status"`
	DueBack   *time.Time         `gorm:"index" json:"due_back,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

func (Genre) TableName() string {
	return "genres"
}

func (Book) TableName() string {
	return "books"
}

func (BookInstance) TableName() string {
	return "book_instances"
}

// Identifiers are assigned once, on insert. Updates keep the existing value.

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (bi *BookInstance) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// URL returns the detail page path of the author.
func (a Author) URL() string {
	return "/catalog/author/" + a.ID.String()
}

// FullName renders "Family, First". It is empty unless both parts are present.
func (a Author) FullName() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan renders "1920 - 1992"; unknown ends stay blank.
func (a Author) Lifespan() string {
	return fmt.Sprintf("%s - %s", year(a.DateOfBirth), year(a.DateOfDeath))
}

func (a Author) DateOfBirthFormatted() string {
	return formatDate(a.DateOfBirth, DisplayDateLayout)
}

func (a Author) DateOfDeathFormatted() string {
	return formatDate(a.DateOfDeath, DisplayDateLayout)
}

// DateOfBirthInput is the value for the update form's date input.
func (a Author) DateOfBirthInput() string {
	return formatDate(a.DateOfBirth, InputDateLayout)
}

func (a Author) DateOfDeathInput() string {
	return formatDate(a.DateOfDeath, InputDateLayout)
}

func (g Genre) URL() string {
	return "/catalog/genre/" + g.ID.String()
}

func (b Book) URL() string {
	return "/catalog/book/" + b.ID.String()
}

// GenreIDs returns the ids of the book's genres in association order.
func (b Book) GenreIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.Genres))
	for _, g := range b.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func (bi BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID.String()
}

func (bi BookInstance) DueBackFormatted() string {
	return formatDate(bi.DueBack, DisplayDateLayout)
}

func (bi BookInstance) DueBackInput() string {
	return formatDate(bi.DueBack, InputDateLayout)
}

// IsOverdue reports whether a loaned copy is past its due date.
func (bi BookInstance) IsOverdue(now time.Time) bool {
	return bi.Status == StatusLoaned && bi.DueBack != nil && bi.DueBack.Before(now)
}

func year(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d", t.Year())
}

func formatDate(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
