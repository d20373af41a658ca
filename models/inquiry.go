package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inquiry records a tenant's interest in a listing.
type Inquiry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID   primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	TenantID     primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	Message      string             `bson:"message" json:"message"`
	ContactPhone string             `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

type InquiryRequest struct {
	Message      string `json:"message" validate:"required,max=2000"`
	ContactPhone string `json:"contactPhone" validate:"omitempty,e164|numeric"`
}
