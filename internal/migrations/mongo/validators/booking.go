package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_reference",
			"volunteer_id",
			"client_name",
			"client_email",
			"client_phone",
			"support_category",
			"consultation_type",
			"start_time",
			"end_time",
			"status",
			"preferred_language",
			"created_at",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"booking_reference": bson.M{
				"bsonType": "string",
				"pattern":  `^ZT-[0-9]{4}-[0-9]{6}$`,
			},

			"volunteer_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"client_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"client_email": bson.M{
				"bsonType": "string",
				"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
			},

			"client_phone": bson.M{
				"bsonType": "string",
				"pattern":  `^(\+44|0)[0-9]{10}$`,
			},

			"support_category": bson.M{
				"bsonType": "string",
				"enum": []string{
					"domestic_abuse",
					"debt_advice",
					"poverty_welfare",
					"general_counselling",
				},
			},

			"consultation_type": bson.M{
				"bsonType": "string",
				"enum":     []string{"phone", "in_person"},
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"upcoming",
					"completed",
					"cancelled",
					"no_show",
				},
			},

			"preferred_language": bson.M{
				"bsonType": "string",
				"enum":     []string{"en", "hi", "gu", "pu", "pl"},
			},

			"note": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
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
