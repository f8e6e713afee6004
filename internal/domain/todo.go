package domain

import "time"

const (
	StatusInProgress = "inprogress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is one of the two allowed status values.
func ValidStatus(s string) bool {
	return s == StatusInProgress || s == StatusCompleted
}

// Todo is a task owned by one user and optionally shared with editors.
// No gorm.Model here: deletes are hard deletes, a removed todo must not be
// resurrectable through a soft-delete flag.
type Todo struct {
	ID           uint      `gorm:"primarykey"`
	Title        string    `gorm:"size:100;not null"`
	Description  string    `gorm:"type:text"`
	Status       string    `gorm:"size:20;not null;default:'inprogress'"`
	Date         time.Time `gorm:"not null"`
	IsBookmarked bool      `gorm:"not null;default:false"`
	OwnerID      uint      `gorm:"not null;index"`
	Owner        User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedBy    string    `gorm:"size:100;not null"`
	UpdatedBy    *string   `gorm:"size:100"`
	Editors      []User    `gorm:"many2many:todo_editors;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// CanBeMutatedBy reports whether the user may update or delete this todo:
// the owner or any editor. Comparison is by primary key, never by name.
func (t *Todo) CanBeMutatedBy(userID uint) bool {
	if t.OwnerID == userID {
		return true
	}
	for _, e := range t.Editors {
		if e.ID == userID {
			return true
		}
	}
	return false
}
