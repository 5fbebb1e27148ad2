package handlers

import (
	"startup-funding-system/middleware"
	"startup-funding-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App, walletService *services.WalletService) {
	// 🔓 Public: PayHere server-to-server notification. The gateway cannot
	// send our access tokens, so this route authenticates by md5 signature.
	app.Post("/api/v1/wallets/notify", walletService.HandlePayhereNotify)

	// 🔐 Authenticated wallet routes
	secured := app.Group("/api/v1/wallets", middleware.RequireAuth())
	secured.Get("/me", walletService.GetMyWallet)
	secured.Get("/transactions", walletService.GetWalletHistory)
	secured.Post("/deposit/initiate", walletService.HandleDepositInitiate)
	secured.Post("/invest", walletService.HandleInvest)
}
