package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer_name",
			"customer_email",
			"table_number",
			"booking_date",
			"booking_time",
			"guests",
			"status",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"customer_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"customer_email": bson.M{
				"bsonType": "string",
				"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
			},

			"customer_phone": bson.M{
				"bsonType": "string",
			},

			"table_number": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"booking_date": bson.M{
				"bsonType": "date",
			},

			"booking_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"duration_hours": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"guests": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  12,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
					"completed",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"paid",
					"refunded",
				},
			},

			"payment_method": bson.M{
				"bsonType": "string",
				"enum": []string{
					"card",
					"cash",
					"online",
				},
			},

			"total_amount": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"special_requests": bson.M{
				"bsonType": "string",
			},

			"account_id": bson.M{
				"bsonType": "string",
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
