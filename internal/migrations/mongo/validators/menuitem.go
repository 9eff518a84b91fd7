package validators

import "go.mongodb.org/mongo-driver/bson"

var MenuItemValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"price",
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

			"price": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"taste": bson.M{
				"bsonType": "string",
				"enum": []string{
					"sweet",
					"sour",
					"spicy",
				},
			},

			"is_drink": bson.M{
				"bsonType": "bool",
			},

			"ingredients": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 1,
					"maxLength": 60,
				},
			},

			"num_sales": bson.M{
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
