package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/users/groups/controller"
	"academykit_backend/internals/features/users/groups/service"
	"academykit_backend/internals/middlewares/authz"
)

func GroupRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewGroupController(service.NewGroupService(a.DB, a.Queue))
	read := a.Authz.Require("groups", authz.ActRead)
	write := a.Authz.Require("groups", authz.ActWrite)

	g := r.Group("/groups")
	g.Get("/", read, ctl.List)
	g.Post("/", write, ctl.Create)
	g.Get("/:identity", read, ctl.Get)
	g.Put("/:identity", write, ctl.Update)
	g.Delete("/:identity", write, ctl.Delete)

	g.Get("/:identity/members", read, ctl.Members)
	g.Post("/:identity/members", write, ctl.AddMembers)
	g.Delete("/:identity/members/:memberId", write, ctl.RemoveMember)
}
