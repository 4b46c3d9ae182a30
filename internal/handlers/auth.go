package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pharmled/pharmledgo/internal/models"
	"github.com/pharmled/pharmledgo/internal/utils"
	"gorm.io/gorm"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// login authenticates a staff member and returns a token
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var account models.StaffAccount
	err := r.db.Where("username = ? AND is_active = ?", body.Username, true).First(&account).Error
	if err != nil || !utils.CheckPasswordHash(body.Password, account.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(&account, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	account.LastLogin = &now
	r.db.Save(&account)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"account": account,
	})
}

// register creates a staff account. The first account may be created without
// a token so the terminal can be bootstrapped.
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Username == "" || len(body.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Username and a password of at least 8 characters are required")
		return
	}

	var existing int64
	r.db.Model(&models.StaffAccount{}).Count(&existing)

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	account := models.StaffAccount{
		Username: body.Username,
		Password: hash,
		Name:     body.Name,
		IsActive: true,
	}
	if err := r.db.Create(&account).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			respondError(w, http.StatusConflict, "Username already taken")
			return
		}
		respondError(w, http.StatusConflict, "Failed to create account")
		return
	}

	r.actions.Log("system", "staff account created", map[string]interface{}{
		"username": account.Username,
		"first":    existing == 0,
	})
	respondJSON(w, http.StatusCreated, account)
}
