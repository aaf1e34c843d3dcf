package marketplaceserver

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/gamerlink-api/internal/platform/identity"
	apierrors "github.com/Apurer/gamerlink-api/internal/shared/errors"
)

// pathID binds a positive integer path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, c.Param(name), &id)
	if err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{name: err.Error()}))
		return 0, false
	}
	if id <= 0 {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{name: fmt.Sprintf("%s must be a positive integer", name)}))
		return 0, false
	}
	return id, true
}

// queryString binds an optional form-style query parameter.
func queryString(c *gin.Context, name string) (string, bool) {
	var value string
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &value); err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{name: err.Error()}))
		return "", false
	}
	return value, true
}

// currentSession is only called behind RequireUser or RequireAdmin.
func currentSession(c *gin.Context) identity.Session {
	session, _ := identity.FromContext(c.Request.Context())
	return session
}
