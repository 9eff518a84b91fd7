package validators

import "go.mongodb.org/mongo-driver/bson"

var PersonValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"username",
			"password_hash",
			"work",
			"mobile",
			"email",
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
				"maxLength": 100,
			},

			"username": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 30,
			},

			"password_hash": bson.M{
				"bsonType": "string",
			},

			"work": bson.M{
				"bsonType": "string",
				"enum": []string{
					"chef",
					"waiter",
					"manager",
				},
			},

			"mobile": bson.M{
				"bsonType":  "string",
				"minLength": 7,
				"maxLength": 20,
			},

			"email": bson.M{
				"bsonType": "string",
				"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
			},

			"age": bson.M{
				"bsonType": "int",
				"minimum":  16,
				"maximum":  100,
			},

			"address": bson.M{
				"bsonType":  "string",
				"maxLength": 300,
			},

			"salary": bson.M{
				"bsonType": "int",
				"minimum":  0,
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
