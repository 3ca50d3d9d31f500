package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Registrar Analytics API",
        "description": "Academic analytics and progression engine over dual-schema student records",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Analytics", "description": "Rendered result tables"},
        {"name": "Progression", "description": "Curriculum progression resolution"},
        {"name": "Reports", "description": "CSV and PDF downloads"},
        {"name": "Snapshots", "description": "Record store lifecycle"}
    ],
    "paths": {
        "/tables/{name}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Render one analytics table",
                "parameters": [
                    {"name": "name", "in": "path", "type": "string", "required": true},
                    {"name": "variant", "in": "query", "type": "string", "enum": ["old", "new"]},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "subject_id", "in": "query", "type": "string"},
                    {"name": "subject_code", "in": "query", "type": "string"},
                    {"name": "term_id", "in": "query", "type": "string"},
                    {"name": "professor_id", "in": "query", "type": "string"},
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "comparison", "in": "query", "type": "string", "enum": ["lt", "le", "gt", "ge", "eq", "ne"]},
                    {"name": "value", "in": "query", "type": "number"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown table", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/progression": {
            "get": {
                "tags": ["Progression"],
                "summary": "Progression for one student",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "variant", "in": "query", "type": "string", "enum": ["old", "new"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/progression/batch": {
            "post": {
                "tags": ["Progression"],
                "summary": "Progression for a set of students",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProgressionBatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{name}/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download one analytics table as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "name", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "variant", "in": "query", "type": "string", "enum": ["old", "new"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "403": {"description": "Export disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/snapshots": {
            "get": {
                "tags": ["Snapshots"],
                "summary": "Currently served snapshots per schema variant",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/snapshots/rebuild": {
            "post": {
                "tags": ["Snapshots"],
                "summary": "Queue an asynchronous snapshot rebuild",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RebuildRequest"}}
                ],
                "responses": {
                    "202": {"description": "Rebuild queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ProgressionBatchRequest": {
            "type": "object",
            "required": ["studentIds"],
            "properties": {
                "variant": {"type": "string", "enum": ["old", "new"]},
                "studentIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "RebuildRequest": {
            "type": "object",
            "required": ["variant"],
            "properties": {
                "variant": {"type": "string", "enum": ["old", "new"]}
            }
        },
        "ResultTable": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "filters": {"type": "object"},
                "columns": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"type": "object"}},
                "meta": {"type": "object"},
                "empty": {"type": "boolean"}
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
