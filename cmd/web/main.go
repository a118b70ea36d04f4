// @title           Portfolio API
// @version         1.0
// @description     API портфолио: проекты, услуги, вход администратора и загрузка изображений.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:5000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "portfolio_backend/internal/app"

func main() {
	app.Run()
}
