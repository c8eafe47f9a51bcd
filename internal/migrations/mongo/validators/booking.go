package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
			"service_type",
			"preferred_date",
			"preferred_time",
			"status",
			"notification_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 1000,
			},

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 1000,
			},

			"phone": bson.M{
				"bsonType":  "string",
				"maxLength": 20,
			},

			"service_type": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 1000,
			},

			"preferred_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"preferred_time": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"message": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
				},
			},

			"notification_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"sent",
					"failed",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
