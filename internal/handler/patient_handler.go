package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medicore/internal/models"
	"medicore/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PatientHandler struct {
	patients *repository.PatientRepository
}

func NewPatientHandler(patients *repository.PatientRepository) *PatientHandler {
	return &PatientHandler{patients: patients}
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req struct {
		Name              string `json:"name" binding:"required"`
		Phone             string `json:"phone"`
		UserID            *uint  `json:"user_id"`
		InsuranceProvider string `json:"insurance_provider"`
		InsuranceMemberNo string `json:"insurance_member_no"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	p := &models.Patient{
		Name:              req.Name,
		Phone:             req.Phone,
		UserID:            req.UserID,
		InsuranceProvider: req.InsuranceProvider,
		InsuranceMemberNo: req.InsuranceMemberNo,
	}
	if err := h.patients.Create(p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"patient": p})
}

func (h *PatientHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.patients.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": list})
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid patient id"})
		return
	}
	p, err := h.patients.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "patient not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": p})
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid patient id"})
		return
	}
	p, err := h.patients.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "patient not found"})
			return
		}
		respondError(c, err)
		return
	}
	var req struct {
		Name              *string `json:"name"`
		Phone             *string `json:"phone"`
		InsuranceProvider *string `json:"insurance_provider"`
		InsuranceMemberNo *string `json:"insurance_member_no"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.InsuranceProvider != nil {
		p.InsuranceProvider = *req.InsuranceProvider
	}
	if req.InsuranceMemberNo != nil {
		p.InsuranceMemberNo = *req.InsuranceMemberNo
	}
	if err := h.patients.Update(p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": p})
}
