package repository

import (
	"medicore/internal/models"

	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(p *models.Patient) error {
	return r.db.Create(p).Error
}

func (r *PatientRepository) GetByID(id uint) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) List(limit, offset int) ([]models.Patient, error) {
	var list []models.Patient
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *PatientRepository) Update(p *models.Patient) error {
	return r.db.Save(p).Error
}
