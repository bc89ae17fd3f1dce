package middleware

import (
	"net/http"
	"time"

	"movibanca/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorHandler recoge los errores que los handlers delegan con c.Error y los
// convierte en un 500 con cuerpo neutro. El detalle real solo va al log: en
// una API bancaria un error de Mongo o de GORM en la respuesta es una fuga.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Err(err.Err).
			Msg("error no controlado")

		c.AbortWithStatusJSON(http.StatusInternalServerError,
			apierror.New("Error interno del servidor"))
	}
}

// Recovery convierte un panic en un 500 con el mismo cuerpo neutro que
// ErrorHandler, dejando el valor del panic en el log.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("path", c.FullPath()).
					Interface("panic", r).
					Msg("panic recuperado")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					apierror.New("Error interno del servidor"))
			}
		}()
		c.Next()
	}
}

// Logger emite una línea por petición con el request_id para poder cruzarla
// con los logs del motor de movimientos.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		inicio := time.Now()
		c.Next()
		log.Info().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latencia", time.Since(inicio)).
			Msg("peticion")
	}
}
