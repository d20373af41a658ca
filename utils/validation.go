package utils

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func IsValidPincode(pincode string) bool {
	return pincodePattern.MatchString(pincode)
}

// ParseID accepts a 24-character hex object id.
func ParseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
