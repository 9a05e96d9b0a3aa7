package validators

import "go.mongodb.org/mongo-driver/bson"

var VolunteerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"full_name",
			"email",
			"bio",
			"support_categories",
			"languages",
			"is_verified",
			"is_active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"full_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType": "string",
				"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^(\+44|0)[0-9]{10}$`,
			},

			"bio": bson.M{
				"bsonType":  "string",
				"minLength": 50,
				"maxLength": 200,
			},

			"support_categories": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "string",
					"enum": []string{
						"domestic_abuse",
						"debt_advice",
						"poverty_welfare",
						"general_counselling",
					},
				},
			},

			"languages": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "string",
					"enum":     []string{"en", "hi", "gu", "pu", "pl"},
				},
			},

			"is_verified": bson.M{
				"bsonType": "bool",
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
