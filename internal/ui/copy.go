package ui

// Screen titles and labels.
const (
	SignInHeading   = "Inicia Sesión"
	SignInButton    = "Entrar"
	SignInLink      = "¿No tienes cuenta? Regístrate"
	SignUpHeading   = "Crear Cuenta"
	SignUpButton    = "Crear Cuenta"
	SignUpLink      = "¿Ya tienes cuenta? Iniciar Sesión"
	EmailLabel      = "Email"
	PasswordLabel   = "Contraseña"
	MainHeading     = "Hola 👋"
	WelcomePrefix   = "Bienvenid@, "
	CounterPrefix   = "Total de tareas: "
	TaskPlaceholder = "¿Qué harás hoy?"
	SignOutButton   = "Cerrar Sesión"
	NoSessionPrompt = "No se encontró una sesión, por favor inicia sesión o regístrate"
	NoSessionAction = "Iniciar Sesión"
	CompletionIcon  = "✔"
	DeleteIcon      = "🗑"
)

// Empty state.
const (
	EmptyText        = "No hay tareas aún. ¡Agrega una! ✍️"
	SuggestionsTitle = "Sugerencias:"
)

// Suggestions are shown instead of the task list when there are no tasks.
var Suggestions = []string{
	"✅ Terminar el proyecto",
	"✅ Estudiar para el examen",
	"✅ Ir al gym",
}

// Notification titles and messages.
const (
	TitleLoadFailed   = "Error al cargar tareas"
	TitleAddFailed    = "Error al añadir tarea"
	TitleDeleteFailed = "Error al borrar tarea"
	TitleSignInFailed = "Error al Iniciar Sesión"
	TitleSignUpFailed = "Error al Registrarse"
	TitleSignUpOK     = "Registro Exitoso"
	MessageSignUpOK   = "Serás redireccionado."
	PromptEnterTask   = "Por favor ingresa una tarea."
	PromptFixErrors   = "Por favor, corrige los errores para continuar."
)

// Validation messages.
const (
	EmailRequired    = "El email es requerido"
	EmailInvalid     = "Formato de email inválido"
	PasswordRequired = "La contraseña es requerida"
	PasswordTooShort = "Debe tener al menos 6 caracteres"
)
