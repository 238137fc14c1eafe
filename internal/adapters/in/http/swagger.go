package http

import (
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// SwaggerInstance is the swag registry name of the API document.
const SwaggerInstance = "logistics"

type openAPIJSON string

func (d openAPIJSON) ReadDoc() string {
	return string(d)
}

// RegisterSwagger publishes doc under /swagger/ with the Swagger UI.
func RegisterSwagger(e *echo.Echo, doc *openapi3.T) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	if swag.GetSwagger(SwaggerInstance) == nil {
		swag.Register(SwaggerInstance, openAPIJSON(data))
	}

	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(SwaggerInstance)))
	return nil
}
