// Package docs регистрирует описание Jam API для swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "http://www.swagger.io/support",
            "email": "support@swagger.io"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Регистрация по почте и паролю",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/register.Request"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Вход по почте и паролю",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/login.Request"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/login/google": {
            "post": {
                "tags": ["auth"],
                "summary": "Вход через Google",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Выход",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/verify-email": {
            "get": {
                "tags": ["auth"],
                "summary": "Подтверждение почты по ссылке из письма",
                "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/verify-email/resend": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Повторная отправка письма",
                "responses": {"202": {"description": "Accepted"}}
            }
        },
        "/verify-email/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Статус подтверждения почты",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/session": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["session"],
                "summary": "Экран, на который нужно направить пользователя",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Decision"}}}
            }
        },
        "/username": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["username"],
                "summary": "Резервирование имени пользователя",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/username/check": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["username"],
                "summary": "Проверка доступности имени",
                "parameters": [{"type": "string", "name": "username", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/songs/today": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["songs"],
                "summary": "Песня дня текущего пользователя",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["songs"],
                "summary": "Выбор песни дня",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/feed": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["songs"],
                "summary": "Песни дня подписок",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Свой профиль",
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Изменение профиля",
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Публичный профиль",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/users/{id}/follow": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["follow"],
                "summary": "Подписаться",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["follow"],
                "summary": "Отписаться",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{id}/following": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["follow"],
                "summary": "Подписки пользователя",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{id}/songs/{songID}/comments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["comments"],
                "summary": "Комментарии к песне дня",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "songID", "in": "path", "required": true},
                    {"type": "string", "name": "date", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["comments"],
                "summary": "Новый комментарий",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "songID", "in": "path", "required": true}
                ],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}
            }
        },
        "/settings/theme": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Текущая тема",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Установка темы",
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/settings/theme/toggle": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Переключение темы",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "register.Request": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string", "minLength": 6}}
        },
        "login.Request": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.Decision": {
            "type": "object",
            "properties": {
                "route": {"type": "string", "enum": ["email_verification", "username", "song_selection", "home"]},
                "date": {"type": "string"},
                "new_day": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Jam API",
	Description:      "API приложения «песня дня»: вход, выбор имени, песня дня, лента и комментарии",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
