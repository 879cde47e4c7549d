package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "FSM Planning API",
        "description": "Planning subsystem for field-service management",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Plannings", "description": "Planning record CRUD and lifecycle"},
        {"name": "Calendar", "description": "Aggregated calendar events"},
        {"name": "Availability", "description": "Advisory resource availability checks"}
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
        "/plannings": {
            "get": {
                "tags": ["Plannings"],
                "summary": "List planning records",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "technician_id", "in": "query", "type": "string"},
                    {"name": "vehicle_id", "in": "query", "type": "string"},
                    {"name": "job_id", "in": "query", "type": "string"},
                    {"name": "sheet_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Plannings"],
                "summary": "Create planning records, expanding recurrence templates",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SavePlanningRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plannings/{id}": {
            "get": {
                "tags": ["Plannings"],
                "summary": "Get planning record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Plannings"],
                "summary": "Fully edit planning record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SavePlanningRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Plannings"],
                "summary": "Delete planning record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/plannings/{id}/status": {
            "patch": {
                "tags": ["Plannings"],
                "summary": "Transition lifecycle status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Transition not allowed"}
                }
            }
        },
        "/calendar/plannings": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Planning records as calendar events",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/interventions": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Aggregated intervention events",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/technicians/{id}": {
            "get": {
                "tags": ["Availability"],
                "summary": "Check technician availability",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "start_date", "in": "query", "required": true, "type": "string"},
                    {"name": "end_date", "in": "query", "required": true, "type": "string"},
                    {"name": "start_time", "in": "query", "type": "string"},
                    {"name": "end_time", "in": "query", "type": "string"},
                    {"name": "all_day", "in": "query", "type": "boolean"},
                    {"name": "exclude_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/vehicles/{id}": {
            "get": {
                "tags": ["Availability"],
                "summary": "Check vehicle availability",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "start_date", "in": "query", "required": true, "type": "string"},
                    {"name": "end_date", "in": "query", "required": true, "type": "string"},
                    {"name": "exclude_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SavePlanningRequest": {
            "type": "object",
            "required": ["start_date", "end_date", "technician_ids"],
            "properties": {
                "sheet_id": {"type": "string"},
                "job_id": {"type": "string"},
                "client_id": {"type": "string"},
                "start_date": {"type": "string", "example": "2025-03-01"},
                "end_date": {"type": "string", "example": "2025-03-02"},
                "start_time": {"type": "string", "example": "08:30"},
                "end_time": {"type": "string", "example": "17:00"},
                "all_day": {"type": "boolean"},
                "skip_saturday": {"type": "boolean"},
                "skip_sunday": {"type": "boolean"},
                "skip_holidays": {"type": "boolean"},
                "technician_ids": {"type": "array", "items": {"type": "string"}},
                "vehicle_id": {"type": "string"},
                "secondary_vehicle_ids": {"type": "array", "items": {"type": "string"}},
                "description": {"type": "string"},
                "recurring": {"type": "boolean"},
                "weekdays": {"type": "array", "items": {"type": "integer"}},
                "recurrence_end": {"type": "string", "example": "2025-06-30"}
            }
        },
        "ChangeStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "example": "Confermata"}
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
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
