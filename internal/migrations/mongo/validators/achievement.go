package validators

import "go.mongodb.org/mongo-driver/bson"

var AchievementValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"label",
			"conditions",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"label": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"image": bson.M{
				"bsonType": "string",
			},

			"conditions": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"metric", "target"},
					"properties": bson.M{
						"metric": bson.M{
							"bsonType": "string",
							"enum": []string{
								"orders",
								"fiveStars",
								"fourStars",
							},
						},
						"comparator": bson.M{
							"bsonType": "string",
							"enum": []string{
								"eq",
								"gte",
							},
						},
						"target": bson.M{
							"bsonType": []string{"int", "long"},
							"minimum":  1,
						},
					},
				},
			},
		},
	},
}
