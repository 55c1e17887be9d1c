package giftcard

import "errors"

var (
	ErrNotFound            = errors.New("no gift card exists with this code")
	ErrNotActive           = errors.New("this gift card is no longer active")
	ErrExpired             = errors.New("this gift card has expired")
	ErrInsufficientBalance = errors.New("the gift card balance does not cover this amount")
	ErrInvalidAmount       = errors.New("the redemption amount must be positive")
	ErrCodeExists          = errors.New("a gift card with this code already exists")
)
