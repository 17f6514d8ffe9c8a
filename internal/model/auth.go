package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims for a dashboard session
type SessionClaims struct {
	SessionID      string `json:"sid"`
	UserID         string `json:"userId"`
	Role           Role   `json:"role"`
	MunicipalityID string `json:"municipalityId"`
	jwt.RegisteredClaims
}

// LoginRequest selects a municipality (and optionally a role) to open a session
type LoginRequest struct {
	MunicipalityID string     `json:"municipalityId"`
	Role           Role       `json:"role,omitempty"`
	Name           string     `json:"name,omitempty"`
	Department     Department `json:"department,omitempty"`
}

// LoginResponse is returned after a successful login or municipality switch
type LoginResponse struct {
	Token        string       `json:"token"`
	User         User         `json:"user"`
	Municipality Municipality `json:"municipality"`
	Tabs         []Tab        `json:"tabs"`
}

// Session is the cached server-side record behind a session token
type Session struct {
	ID   string `json:"id"`
	User User   `json:"user"`
}
