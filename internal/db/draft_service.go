package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/feelog/internal/models"
)

// Drafts stores entries written while logged out.
type Drafts struct {
	db *gorm.DB
}

// NewDrafts wraps db.
func NewDrafts(db *gorm.DB) *Drafts {
	return &Drafts{db: db}
}

// Save creates the draft for req.Date or overwrites the existing one
func (d *Drafts) Save(req models.RecordRequest) (*models.Draft, error) {
	var draft models.Draft
	err := d.db.Where("date = ?", req.Date).First(&draft).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	draft.Date = req.Date
	draft.Grateful = req.Grateful
	draft.Sad = req.Sad
	draft.Angry = req.Angry
	draft.Notes = req.Notes
	draft.Mood = req.Mood

	if err := d.db.Save(&draft).Error; err != nil {
		return nil, fmt.Errorf("failed to save draft for %s: %w", req.Date, err)
	}
	return &draft, nil
}

// List returns all drafts, newest date first
func (d *Drafts) List() ([]models.Draft, error) {
	var drafts []models.Draft
	if err := d.db.Order("date DESC").Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

// Get returns the draft for date, or nil if there is none
func (d *Drafts) Get(date string) (*models.Draft, error) {
	var draft models.Draft
	err := d.db.Where("date = ?", date).First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// Delete removes the draft with the given ID
func (d *Drafts) Delete(id uint) error {
	result := d.db.Delete(&models.Draft{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("draft #%d not found", id)
	}
	return nil
}

// Count returns the number of drafts
func (d *Drafts) Count() (int64, error) {
	var n int64
	err := d.db.Model(&models.Draft{}).Count(&n).Error
	return n, err
}
