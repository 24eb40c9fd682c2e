package entity

import "time"

type Review struct {
	Base
	BookID   int64     `json:"bookId" validate:"required"`
	Book     *Book     `json:"book,omitempty" validate:"-"`
	Rating   int       `json:"rating" validate:"min=1,max=5"`
	Comment  string    `json:"comment,omitempty"`
	Creation time.Time `json:"creation"`
}
