package validators

import "go.mongodb.org/mongo-driver/bson"

var UserRoleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"user_id", "role", "created_at"},
		"properties": bson.M{
			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"admin"},
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
