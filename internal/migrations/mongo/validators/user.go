package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"role",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"role": bson.M{
				"bsonType": "string",
				"enum": []string{
					"customer",
					"chef",
				},
			},

			"push_endpoints": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"stats": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"completed_orders": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
					"five_stars": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
					"four_stars": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
					"average_rating": bson.M{
						"bsonType": []string{"double", "int", "long"},
						"minimum":  0,
						"maximum":  5,
					},
					"review_count": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
				},
			},

			"achievements": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},
		},
	},
}
