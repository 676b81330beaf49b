package statuses

// jobStatusSchema validates status reports. status and receivedTime are
// accepted on the wire because serialized JobStatuses always carry them, but
// the sentinel recomputes both.
const jobStatusSchema = `
{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "JobStatus",
	"type": "object",
	"required": ["jobContext", "nativeStatus"],
	"additionalProperties": false,
	"properties": {
		"apiVersion": {
			"type": "string",
			"enum": ["github.com/gr80mcbr/lwfm"]
		},
		"kind": {
			"type": "string",
			"enum": ["JobStatus"]
		},
		"jobContext": {
			"type": "object",
			"required": ["id"],
			"additionalProperties": false,
			"properties": {
				"id": {
					"type": "string",
					"minLength": 1
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
		},
		"status": {
			"type": "string",
			"enum": [
				"",
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
		"nativeStatus": {
			"type": "string",
			"minLength": 1
		},
		"emitTime": {
			"type": "string",
			"format": "date-time"
		},
		"receivedTime": {
			"type": "string",
			"format": "date-time"
		},
		"nativeInfo": {
			"type": "string"
		},
		"statusMap": {
			"type": "object",
			"additionalProperties": {
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
			}
		}
	}
}
`

const watchSchema = `
{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "Watch",
	"type": "object",
	"required": ["jobId"],
	"additionalProperties": false,
	"properties": {
		"apiVersion": {
			"type": "string",
			"enum": ["github.com/gr80mcbr/lwfm"]
		},
		"kind": {
			"type": "string",
			"enum": ["Watch"]
		},
		"jobId": {
			"type": "string",
			"minLength": 1
		},
		"parentJobId": {
			"type": "string"
		},
		"originJobId": {
			"type": "string"
		},
		"nativeJobId": {
			"type": "string"
		},
		"siteName": {
			"type": "string"
		}
	}
}
`
