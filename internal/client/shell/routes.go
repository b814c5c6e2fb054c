package shell

import "github.com/atinyakov/GophStay/internal/models"

// Routes is the screen table.
func Routes(env *Env) []Route {
	return []Route{
		{Pattern: "/", Factory: newHomePage(env)},
		{Pattern: "/login", Factory: newLoginPage(env)},
		{Pattern: "/register", Factory: newRegisterPage(env)},
		{Pattern: "/forgot-password", Factory: newForgotPasswordPage(env)},
		{Pattern: "/search", Factory: newSearchPage(env)},
		{Pattern: "/place/{id}", Factory: newPlacePage(env)},
		{Pattern: "/forbidden", Factory: newMessagePage(env, "You do not have access to that screen.")},
		{Pattern: "/logout", Factory: logout(env)},

		{Pattern: "/bookings", Login: true, Factory: newBookingsPage(env)},
		{Pattern: "/favorites", Login: true, Factory: newFavoritesPage(env)},
		{Pattern: "/profile", Login: true, Factory: newProfilePage(env)},
		{Pattern: "/change-password", Login: true, Factory: newChangePasswordPage(env)},
		{Pattern: "/create-booking/{id}", Login: true, Factory: newCreateBookingPage(env)},
		{Pattern: "/create-review/{id}", Login: true, Factory: newCreateReviewPage(env)},

		{Pattern: "/my-places", Login: true, Role: models.RoleHost, Factory: newMyPlacesPage(env)},
		{Pattern: "/create-place", Login: true, Role: models.RoleHost, Factory: newCreatePlacePage(env)},
		{Pattern: "/update-place/{id}", Login: true, Role: models.RoleHost, Factory: newUpdatePlacePage(env)},
		{Pattern: "/place-stats/{id}", Login: true, Role: models.RoleHost, Factory: newPlaceStatsPage(env)},
		{Pattern: "/accommodation-bookings/{id}", Login: true, Role: models.RoleHost, Factory: newPlaceBookingsPage(env)},
	}
}
