package validators

import "go.mongodb.org/mongo-driver/bson"

var EventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"order_number",
			"customer_id",
			"chef_id",
			"address",
			"start_time",
			"event_date",
			"event_time",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"order_number": bson.M{
				"bsonType": "long",
				"minimum":  100000,
			},

			"customer_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"chef_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"menu_items": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"item_id", "quantity"},
					"properties": bson.M{
						"item_id": bson.M{
							"bsonType": "string",
						},
						"quantity": bson.M{
							"bsonType": "int",
							"minimum":  1,
						},
					},
				},
			},

			"address": bson.M{
				"bsonType": "object",
				"required": []string{"street", "city"},
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"event_date": bson.M{
				"bsonType": "string",
			},

			"event_time": bson.M{
				"bsonType": "string",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"accepted",
					"confirmed",
					"rejected",
					"cancelled",
					"completed",
				},
			},

			"reason": bson.M{
				"bsonType": "string",
			},

			"attendance": bson.M{
				"bsonType": "array",
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"reminders_sent": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},
		},
	},
}
