package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/admobility/admobility/internal/metrics"
	"github.com/admobility/admobility/internal/model"
)

// Registration is a multi-step write against the account and row stores with
// no transactional wrapper, so each step compensates the previous ones on
// failure:
//
//  1. create the auth account — on failure, abort
//  2. insert the user profile — on failure, delete the account
//  3. (advertiser only) insert the company profile — on failure, delete the
//     user row and then the account
//
// Failed compensating deletes are logged and swallowed; the caller sees the
// original error, never the secondary one.

type companyReq struct {
	CompanyName string `json:"company_name"`
	Website     string `json:"website"`
	Industry    string `json:"industry"`
}

type registerReq struct {
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	PhoneNumber string     `json:"phone_number"`
	Company     companyReq `json:"company"`
}

// RegisterVehicleOwner creates an auth account plus user profile with the
// vehicle_owner role. The new owner is onboarding-incomplete until their
// first vehicle is registered.
func (h *AuthHandler) RegisterVehicleOwner(c echo.Context) error {
	return h.register(c, model.RoleVehicleOwner)
}

// RegisterAdvertiser creates an auth account, user profile and company
// profile in one sequence.
func (h *AuthHandler) RegisterAdvertiser(c echo.Context) error {
	return h.register(c, model.RoleAdvertiser)
}

func (h *AuthHandler) register(c echo.Context, role string) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}
	if role == model.RoleAdvertiser && strings.TrimSpace(req.Company.CompanyName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Company name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Step 1: auth account.
	accountID, err := h.Accounts.Create(ctx, req.Email, req.Password, req.FullName, req.PhoneNumber, role, h.Cfg.BcryptCost)
	if err != nil {
		log.Printf("register: account create failed: %v", err)
		metrics.Registrations.WithLabelValues(role, "failed").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Authentication failed"})
	}

	// Step 2: user profile row keyed by the account id.
	u, err := h.Users.Create(ctx, model.User{
		ID:          accountID,
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        role,
	})
	if err != nil {
		log.Printf("register: profile create failed: %v", err)
		if derr := h.Accounts.Delete(ctx, accountID); derr != nil {
			log.Printf("register: compensating account delete failed for %s: %v", accountID, derr)
		}
		metrics.Registrations.WithLabelValues(role, "failed").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to create user profile"})
	}

	if role != model.RoleAdvertiser {
		metrics.Registrations.WithLabelValues(role, "ok").Inc()
		return c.JSON(http.StatusOK, echo.Map{"message": "Registration successful", "user": u})
	}

	// Step 3: company profile. On failure unwind the user row first, then
	// the account.
	adv, err := h.Advertisers.Create(ctx, model.Advertiser{
		UserID:      accountID,
		CompanyName: req.Company.CompanyName,
		Website:     req.Company.Website,
		Industry:    req.Company.Industry,
	})
	if err != nil {
		log.Printf("register: advertiser profile create failed: %v", err)
		if derr := h.Users.Delete(ctx, accountID); derr != nil {
			log.Printf("register: compensating user delete failed for %s: %v", accountID, derr)
		}
		if derr := h.Accounts.Delete(ctx, accountID); derr != nil {
			log.Printf("register: compensating account delete failed for %s: %v", accountID, derr)
		}
		metrics.Registrations.WithLabelValues(role, "failed").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to create advertiser profile"})
	}

	metrics.Registrations.WithLabelValues(role, "ok").Inc()
	return c.JSON(http.StatusOK, echo.Map{"message": "Registration successful", "user": u, "advertiser": adv})
}
