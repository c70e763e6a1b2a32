package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Mentor Roster API",
        "description": "Term calendar, session ledger and roster planning for the mentoring program",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Terms", "description": "School term catalog and session calendar"},
        {"name": "Sessions", "description": "Mentor availability and student bookings"},
        {"name": "Roster", "description": "Availability grid for planning views"},
        {"name": "Reports", "description": "Session report lifecycle"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/terms": {
            "get": {
                "tags": ["Terms"],
                "summary": "List terms",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/resolve": {
            "get": {
                "tags": ["Terms"],
                "summary": "Resolve the applicable term",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "termId", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{id}/session-dates": {
            "get": {
                "tags": ["Terms"],
                "summary": "List a term's weekly session dates",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Term not found"}
                }
            }
        },
        "/chapters/{id}/roster": {
            "get": {
                "tags": ["Roster"],
                "summary": "Availability grid for a chapter and term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "termId", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Chapter not found"}
                }
            }
        },
        "/chapters/{id}/mentor-sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Book or toggle a mentor's availability",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookMentorAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/chapters/{id}/unavailability": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List mentor unavailability for a term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "termId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentor-sessions/{id}/students": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Book a student into a mentor's session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Mentor session not found"},
                    "409": {"description": "Student or mentor already booked"}
                }
            }
        },
        "/mentor-sessions/{id}/restore": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Restore a mentor's availability",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Mentor session not found"}
                }
            }
        },
        "/mentor-sessions/{id}": {
            "delete": {
                "tags": ["Sessions"],
                "summary": "Withdraw a mentor session without bookings",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "412": {"description": "Mentor session has booked students"}
                }
            }
        },
        "/attendances/{id}": {
            "delete": {
                "tags": ["Sessions"],
                "summary": "Cancel an attendance row",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Attendance not found"},
                    "409": {"description": "Already cancelled"}
                }
            }
        },
        "/attendances/{id}/report": {
            "put": {
                "tags": ["Reports"],
                "summary": "Submit the session report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendances/{id}/sign-off": {
            "post": {
                "tags": ["Reports"],
                "summary": "Sign off a submitted report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/SignOffRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already signed off"},
                    "412": {"description": "No report submitted"}
                }
            }
        }
    },
    "definitions": {
        "BookMentorAvailabilityRequest": {
            "type": "object",
            "required": ["mentor_id", "date", "status"],
            "properties": {
                "mentor_id": {"type": "string"},
                "date": {"type": "string", "example": "2023-02-06"},
                "status": {"type": "string", "enum": ["AVAILABLE", "UNAVAILABLE"]}
            }
        },
        "BookStudentRequest": {
            "type": "object",
            "required": ["student_id"],
            "properties": {
                "student_id": {"type": "string"},
                "group": {"type": "boolean"}
            }
        },
        "SubmitReportRequest": {
            "type": "object",
            "required": ["report"],
            "properties": {
                "report": {"type": "string"}
            }
        },
        "SignOffRequest": {
            "type": "object",
            "properties": {
                "feedback": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
