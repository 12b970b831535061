package user

import (
	"context"
	"net/http"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gatherhub/event-manager/internal/handler"
	"github.com/gatherhub/event-manager/internal/util"
	"github.com/gatherhub/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewHandler(hostname string, userService userService, tokenService tokenService) Handler {
	return Handler{
		hostname:     hostname,
		userService:  userService,
		tokenService: tokenService,
	}
}

type Handler struct {
	hostname     string
	userService  userService
	tokenService tokenService
}

type userService interface {
	SignUp(ctx context.Context, email, password, firstName, lastName string) (*model.User, error)
	SignIn(ctx context.Context, email string, password string) (*model.User, error)
}

type tokenService interface {
	GetAccessToken(user *model.User) (string, error)
	ExpirationSeconds() int
}

// SignUpPage renders the sign up form.
func (h Handler) SignUpPage(c *gin.Context) {
	handler.Render(c, http.StatusOK, "signup.html", gin.H{"Title": "Sign up"})
}

type SignUpRequest struct {
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password" binding:"required,gte=8,lte=128"`
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
}

// SignUp creates the user and signs them in.
func (h Handler) SignUp(c *gin.Context) {
	var request SignUpRequest
	if err := handler.BindForm(c, &request); err != nil {
		handler.Render(c, http.StatusBadRequest, "signup.html", gin.H{
			"Title": "Sign up",
			"Error": err.Error(),
		})
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), request.Email, request.Password, request.FirstName, request.LastName)
	if err != nil {
		if errdef.IsDuplicated(err) {
			handler.Render(c, http.StatusConflict, "signup.html", gin.H{
				"Title": "Sign up",
				"Error": err.Error(),
			})
			return
		}
		_ = c.Error(err)
		return
	}

	h.signIn(c, user, "/events")
}

// SignInPage renders the login form.
func (h Handler) SignInPage(c *gin.Context) {
	handler.Render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

type SignInRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

func (h Handler) SignIn(c *gin.Context) {
	var request SignInRequest
	if err := handler.BindForm(c, &request); err != nil {
		handler.Render(c, http.StatusBadRequest, "login.html", gin.H{
			"Title": "Log in",
			"Error": err.Error(),
		})
		return
	}

	user, err := h.userService.SignIn(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		if errdef.IsUnauthorized(err) {
			handler.Render(c, http.StatusUnauthorized, "login.html", gin.H{
				"Title": "Log in",
				"Error": err.Error(),
			})
			return
		}
		_ = c.Error(err)
		return
	}

	h.signIn(c, user, "/events")
}

func (h Handler) signIn(c *gin.Context, user *model.User, redirectTo string) {
	signedToken, err := h.tokenService.GetAccessToken(user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetAccessTokenCookie(c, signedToken, h.tokenService.ExpirationSeconds(), h.hostname)
	c.Redirect(http.StatusSeeOther, redirectTo)
}

func (h Handler) SignOut(c *gin.Context) {
	util.ClearAccessTokenCookie(c, h.hostname)
	util.SetFlash(c, "success", "You have been signed out")
	c.Redirect(http.StatusSeeOther, "/login")
}
