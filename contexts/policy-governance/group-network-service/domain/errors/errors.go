package errors

import "errors"

var (
	ErrInvalidGroupInput        = errors.New("invalid group input")
	ErrInvalidRelationshipInput = errors.New("invalid relationship input")
	ErrGroupNotFound            = errors.New("group not found")
	ErrRelationshipNotFound     = errors.New("group relationship not found")
	ErrRelationshipExists       = errors.New("group relationship already exists")
	ErrNoRouteFound             = errors.New("no route between groups")
)
