package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Internship Placement API",
        "description": "Internship posting and application lifecycle service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, logout and credentials"},
        {"name": "Catalogue", "description": "Student-facing opportunity catalogue"},
        {"name": "Opportunities", "description": "Representative posting management"},
        {"name": "Applications", "description": "Application lifecycle"},
        {"name": "Approvals", "description": "Staff review queues"},
        {"name": "Reports", "description": "Staff placement reporting"},
        {"name": "Sessions", "description": "Session registry"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate actor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current actor",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/opportunities": {
            "get": {
                "tags": ["Catalogue"],
                "summary": "List eligible opportunities",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/opportunities/facets": {
            "get": {
                "tags": ["Catalogue"],
                "summary": "List catalogue facets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/opportunities/filter": {
            "get": {
                "tags": ["Catalogue"],
                "summary": "Get saved filter",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Catalogue"],
                "summary": "Save filter",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FilterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Catalogue"],
                "summary": "Clear saved filter",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List own applications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Applications"],
                "summary": "Apply for an opportunity",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not eligible"},
                    "409": {"description": "Limit reached or duplicate"}
                }
            }
        },
        "/applications/{id}/accept": {
            "post": {
                "tags": ["Applications"],
                "summary": "Accept an offer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not offered or no slots left"}
                }
            }
        },
        "/applications/{id}/withdraw": {
            "post": {
                "tags": ["Applications"],
                "summary": "Request withdrawal",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/company/opportunities": {
            "get": {
                "tags": ["Opportunities"],
                "summary": "List own opportunities",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Opportunities"],
                "summary": "Create opportunity",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpportunityRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/company/opportunities/{id}": {
            "put": {
                "tags": ["Opportunities"],
                "summary": "Edit opportunity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpportunityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not pending"}
                }
            },
            "delete": {
                "tags": ["Opportunities"],
                "summary": "Delete opportunity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Approved postings cannot be deleted"}
                }
            }
        },
        "/company/opportunities/{id}/visibility": {
            "patch": {
                "tags": ["Opportunities"],
                "summary": "Toggle visibility",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/company/opportunities/{id}/applications": {
            "get": {
                "tags": ["Opportunities"],
                "summary": "List received applications",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/company/applications/{id}/offer": {
            "post": {
                "tags": ["Applications"],
                "summary": "Offer a placement",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/company/applications/{id}/reject": {
            "post": {
                "tags": ["Applications"],
                "summary": "Reject an application",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/representatives/pending": {
            "get": {
                "tags": ["Approvals"],
                "summary": "List representatives awaiting approval",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/representatives/{id}/approve": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Approve a representative account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/opportunities/pending": {
            "get": {
                "tags": ["Approvals"],
                "summary": "List opportunities awaiting approval",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/opportunities/{id}/approve": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Approve an opportunity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/opportunities/{id}/reject": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Reject an opportunity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/staff/withdrawals/pending": {
            "get": {
                "tags": ["Approvals"],
                "summary": "List withdrawal requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/withdrawals/{id}/approve": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Approve a withdrawal request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/staff/withdrawals/{id}/reject": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Reject a withdrawal request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/staff/withdrawals/approve-all": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Drain the withdrawal queue",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/reports/overview": {
            "get": {
                "tags": ["Reports"],
                "summary": "Placement overview",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/reports/companies": {
            "get": {
                "tags": ["Reports"],
                "summary": "Per-company breakdown",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/reports/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export placement report",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/staff/reports/download": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download an archived report",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List active sessions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/sessions/{id}": {
            "delete": {
                "tags": ["Sessions"],
                "summary": "Revoke a session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["user_id", "password"]
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "current_password": {"type": "string"},
                "new_password": {"type": "string"}
            },
            "required": ["current_password", "new_password"]
        },
        "ApplyRequest": {
            "type": "object",
            "properties": {
                "opportunity_id": {"type": "string"}
            },
            "required": ["opportunity_id"]
        },
        "OpportunityRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "level": {"type": "string", "enum": ["Basic", "Intermediate", "Advanced"]},
                "preferred_major": {"type": "string"},
                "open_date": {"type": "string"},
                "close_date": {"type": "string"},
                "slots": {"type": "integer"}
            },
            "required": ["title", "description", "level", "open_date", "close_date", "slots"]
        },
        "FilterRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "level": {"type": "string"},
                "company": {"type": "string"},
                "preferredMajor": {"type": "string"},
                "closingDateFrom": {"type": "string"},
                "closingDateTo": {"type": "string"},
                "sortBy": {"type": "string"},
                "sortDescending": {"type": "boolean"}
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
                "message": {"type": "string"},
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
