package triggers

// triggerSchema validates trigger registration requests. Handler ids and
// creation timestamps are server-assigned, so they're deliberately not
// accepted on the wire.
const triggerSchema = `
{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "Trigger",
	"type": "object",
	"required": ["sourceJobId", "awaitedStatus", "fireDefn", "targetSiteName"],
	"additionalProperties": false,
	"properties": {
		"apiVersion": {
			"type": "string",
			"enum": ["github.com/gr80mcbr/lwfm"]
		},
		"kind": {
			"type": "string",
			"enum": ["Trigger"]
		},
		"sourceJobId": {
			"type": "string",
			"minLength": 1
		},
		"sourceSiteName": {
			"type": "string"
		},
		"awaitedStatus": {
			"type": "string",
			"enum": [
				"UNKNOWN",
				"PENDING",
				"RUNNING",
				"INFO",
				"FINISHING",
				"COMPLETE",
				"FAILED",
				"CANCELLED"
			]
		},
		"fireDefn": {
			"type": "object",
			"required": ["entryPointPath"],
			"additionalProperties": false,
			"properties": {
				"name": {
					"type": "string"
				},
				"computeType": {
					"type": "string"
				},
				"entryPointPath": {
					"type": "string",
					"minLength": 1
				},
				"notificationEmail": {
					"type": "string"
				},
				"args": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"siteArgs": {
					"type": "object",
					"additionalProperties": {
						"type": "string"
					}
				}
			}
		},
		"targetSiteName": {
			"type": "string",
			"minLength": 1
		},
		"targetContext": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"id": {
					"type": "string"
				},
				"nativeId": {
					"type": "string"
				},
				"parentJobId": {
					"type": "string"
				},
				"originJobId": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"siteName": {
					"type": "string"
				},
				"computeType": {
					"type": "string"
				},
				"group": {
					"type": "string"
				},
				"user": {
					"type": "string"
				}
			}
		}
	}
}
`
