package tracking

import (
	"errors"

	"route-diary/internal/engine"
	"route-diary/internal/sensor"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Start(c.Context(), userID); err != nil {
			if errors.Is(err, engine.ErrPermissionDenied) {
				return fiber.NewError(fiber.StatusForbidden, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(StatusResponse{Tracking: true})
	})

	r.Post("/stop", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		svc.Stop(userID)
		return c.JSON(StatusResponse{Tracking: false})
	})

	r.Get("/status", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.JSON(StatusResponse{Tracking: svc.Tracking(userID)})
	})

	r.Post("/sync", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		svc.Sync(c.Context(), userID)
		return c.SendStatus(fiber.StatusAccepted)
	})

	r.Post("/geo", authMiddleware, func(c *fiber.Ctx) error {
		var req GeoSampleRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		userID, _ := c.Locals("user_id").(string)
		if err := svc.PushGeo(userID, req.Sample()); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.SendStatus(fiber.StatusAccepted)
	})

	r.Post("/motion", authMiddleware, func(c *fiber.Ctx) error {
		var req MotionBatchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		userID, _ := c.Locals("user_id").(string)
		samples := make([]sensor.MotionSample, 0, len(req.Samples))
		for _, s := range req.Samples {
			samples = append(samples, s.Sample())
		}
		if err := svc.PushMotion(userID, samples); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.SendStatus(fiber.StatusAccepted)
	})
}
