package user

import (
	"github.com/gin-gonic/gin"
)

func Routes(r *gin.RouterGroup, handler Handler) {
	r.GET("/signup", handler.SignUpPage)
	r.POST("/signup", handler.SignUp)
	r.GET("/login", handler.SignInPage)
	r.POST("/login", handler.SignIn)
	r.POST("/logout", handler.SignOut)
}
