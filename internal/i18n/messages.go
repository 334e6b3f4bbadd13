package i18n

// Key identifies a user-facing message.
type Key string

const (
	ErrInternal Key = "error.internal"

	AuthRequiredCredentials Key = "auth.required_credentials"
	AuthRequiredFields      Key = "auth.required_fields"
	AuthInvalidEmail        Key = "auth.invalid_email"
	AuthPasswordMismatch    Key = "auth.password_mismatch"
	AuthPasswordTooShort    Key = "auth.password_too_short"
	AuthInvalidCredentials  Key = "auth.invalid_credentials"
	AuthEmailNotConfirmed   Key = "auth.email_not_confirmed"
	AuthTooManyRequests     Key = "auth.too_many_requests"
	AuthLoginFailed         Key = "auth.login_failed"
	AuthLoginUnknown        Key = "auth.login_unknown"
	AuthUserExists          Key = "auth.user_exists"
	AuthWeakPassword        Key = "auth.weak_password"
	AuthRegisterFailed      Key = "auth.register_failed"
	AuthRegisterUnknown     Key = "auth.register_unknown"
	AuthConfirmEmail        Key = "auth.confirm_email"
	AuthNotAuthenticated    Key = "auth.not_authenticated"

	FuncTableNotFound      Key = "funcionarios.table_not_found"
	FuncTableMissing       Key = "funcionarios.table_missing"
	FuncReadForbidden      Key = "funcionarios.read_forbidden"
	FuncListUnknown        Key = "funcionarios.list_unknown"
	FuncListNoData         Key = "funcionarios.list_no_data"
	FuncNameRequired       Key = "funcionarios.name_required"
	FuncRoleRequired       Key = "funcionarios.role_required"
	FuncSalaryPositive     Key = "funcionarios.salary_positive"
	FuncInvalidEmail       Key = "funcionarios.invalid_email"
	FuncDuplicate          Key = "funcionarios.duplicate"
	FuncCreateForbidden    Key = "funcionarios.create_forbidden"
	FuncInvalidData        Key = "funcionarios.invalid_data"
	FuncCreateUnknown      Key = "funcionarios.create_unknown"
	FuncCreateNoData       Key = "funcionarios.create_no_data"
	FuncNotFound           Key = "funcionarios.not_found"
	FuncInvalidID          Key = "funcionarios.invalid_id"
	FuncEntity             Key = "funcionarios.entity"
	NotifyCreated          Key = "notifications.crud_created"
	NotifyUpdated          Key = "notifications.crud_updated"
	NotifyDeleted          Key = "notifications.crud_deleted"
	NotifyCrudError        Key = "notifications.crud_error"
	NotifyLoginSuccess     Key = "notifications.login_success"
	NotifyLoginError       Key = "notifications.login_error"
	NotifyRegisterSuccess  Key = "notifications.register_success"
	NotifyRegisterError    Key = "notifications.register_error"
	NotifyLogoutSuccess    Key = "notifications.logout_success"
	NotifySessionExpired   Key = "notifications.session_expired"
	NotifyRequiredFields   Key = "notifications.required_fields"
	NotifyInvalidEmail     Key = "notifications.invalid_email"
	NotifyPasswordMismatch Key = "notifications.password_mismatch"
	NotifyWeakPassword     Key = "notifications.weak_password"
	NotifyOffline          Key = "notifications.offline"
	NotifyReconnected      Key = "notifications.reconnected"
	NotifyTimeout          Key = "notifications.timeout"
	NotifyDefaultEntity    Key = "notifications.default_entity"
	NotifyDefaultAction    Key = "notifications.default_action"
)

var ptBR = map[Key]string{
	ErrInternal: "Erro interno do servidor",

	AuthRequiredCredentials: "E-mail e senha são obrigatórios",
	AuthRequiredFields:      "Todos os campos são obrigatórios",
	AuthInvalidEmail:        "Formato de e-mail inválido",
	AuthPasswordMismatch:    "As senhas não coincidem",
	AuthPasswordTooShort:    "A senha deve ter pelo menos 6 caracteres",
	AuthInvalidCredentials:  "E-mail ou senha incorretos",
	AuthEmailNotConfirmed:   "E-mail não confirmado. Verifique sua caixa de entrada",
	AuthTooManyRequests:     "Muitas tentativas. Tente novamente em alguns minutos",
	AuthLoginFailed:         "Erro ao fazer login",
	AuthLoginUnknown:        "Erro desconhecido ao fazer login",
	AuthUserExists:          "Este e-mail já está cadastrado",
	AuthWeakPassword:        "A senha é muito fraca",
	AuthRegisterFailed:      "Erro ao criar conta",
	AuthRegisterUnknown:     "Erro desconhecido ao criar conta",
	AuthConfirmEmail:        "Cadastro realizado! Verifique seu e-mail para confirmar a conta",
	AuthNotAuthenticated:    "Faça o login para continuar",

	FuncTableNotFound:   "Tabela funcionários não encontrada",
	FuncTableMissing:    "Tabela funcionários não existe no banco de dados",
	FuncReadForbidden:   "Sem permissão para acessar os dados",
	FuncListUnknown:     "Erro desconhecido ao carregar funcionários",
	FuncListNoData:      "Nenhum dado retornado",
	FuncNameRequired:    "Nome é obrigatório",
	FuncRoleRequired:    "Cargo é obrigatório",
	FuncSalaryPositive:  "Salário deve ser maior que zero",
	FuncInvalidEmail:    "Formato de e-mail inválido",
	FuncDuplicate:       "Já existe um funcionário com estes dados",
	FuncCreateForbidden: "Sem permissão para criar funcionário",
	FuncInvalidData:     "Dados inválidos fornecidos",
	FuncCreateUnknown:   "Erro desconhecido ao criar funcionário",
	FuncCreateNoData:    "Nenhum dado retornado após criação",
	FuncNotFound:        "Funcionário não encontrado",
	FuncInvalidID:       "ID de funcionário inválido",
	FuncEntity:          "Funcionário",

	NotifyCreated:          "%s criado com sucesso!",
	NotifyUpdated:          "%s atualizado com sucesso!",
	NotifyDeleted:          "%s removido com sucesso!",
	NotifyCrudError:        "Erro ao %s %s. Tente novamente.",
	NotifyLoginSuccess:     "Login realizado com sucesso!",
	NotifyLoginError:       "Credenciais inválidas. Verifique seus dados.",
	NotifyRegisterSuccess:  "Conta criada com sucesso! Faça o login.",
	NotifyRegisterError:    "Erro ao criar conta. Tente novamente.",
	NotifyLogoutSuccess:    "Logout realizado com sucesso.",
	NotifySessionExpired:   "Sua sessão expirou. Faça o login novamente.",
	NotifyRequiredFields:   "Preencha todos os campos obrigatórios.",
	NotifyInvalidEmail:     "E-mail inválido.",
	NotifyPasswordMismatch: "As senhas não coincidem.",
	NotifyWeakPassword:     "A senha deve ter pelo menos 6 caracteres.",
	NotifyOffline:          "Sem conexão com a internet.",
	NotifyReconnected:      "Conexão restabelecida!",
	NotifyTimeout:          "Tempo limite excedido. Tente novamente.",
	NotifyDefaultEntity:    "item",
	NotifyDefaultAction:    "operação",
}

var enUS = map[Key]string{
	ErrInternal: "Internal server error",

	AuthRequiredCredentials: "Email and password are required",
	AuthRequiredFields:      "All fields are required",
	AuthInvalidEmail:        "Invalid email format",
	AuthPasswordMismatch:    "Passwords do not match",
	AuthPasswordTooShort:    "Password must be at least 6 characters",
	AuthInvalidCredentials:  "Incorrect email or password",
	AuthEmailNotConfirmed:   "Email not confirmed. Check your inbox",
	AuthTooManyRequests:     "Too many attempts. Try again in a few minutes",
	AuthLoginFailed:         "Could not log in",
	AuthLoginUnknown:        "Unknown error while logging in",
	AuthUserExists:          "This email is already registered",
	AuthWeakPassword:        "Password is too weak",
	AuthRegisterFailed:      "Could not create account",
	AuthRegisterUnknown:     "Unknown error while creating account",
	AuthConfirmEmail:        "Account created! Check your email to confirm it",
	AuthNotAuthenticated:    "Log in to continue",

	FuncTableNotFound:   "Employees table not found",
	FuncTableMissing:    "Employees table does not exist in the database",
	FuncReadForbidden:   "No permission to access the data",
	FuncListUnknown:     "Unknown error while loading employees",
	FuncListNoData:      "No data returned",
	FuncNameRequired:    "Name is required",
	FuncRoleRequired:    "Role is required",
	FuncSalaryPositive:  "Salary must be greater than zero",
	FuncInvalidEmail:    "Invalid email format",
	FuncDuplicate:       "An employee with this data already exists",
	FuncCreateForbidden: "No permission to create employee",
	FuncInvalidData:     "Invalid data provided",
	FuncCreateUnknown:   "Unknown error while creating employee",
	FuncCreateNoData:    "No data returned after creation",
	FuncNotFound:        "Employee not found",
	FuncInvalidID:       "Invalid employee ID",
	FuncEntity:          "Employee",

	NotifyCreated:          "%s created successfully!",
	NotifyUpdated:          "%s updated successfully!",
	NotifyDeleted:          "%s removed successfully!",
	NotifyCrudError:        "Could not %s %s. Try again.",
	NotifyLoginSuccess:     "Logged in successfully!",
	NotifyLoginError:       "Invalid credentials. Check your data.",
	NotifyRegisterSuccess:  "Account created! Please log in.",
	NotifyRegisterError:    "Could not create account. Try again.",
	NotifyLogoutSuccess:    "Logged out successfully.",
	NotifySessionExpired:   "Your session expired. Please log in again.",
	NotifyRequiredFields:   "Fill in all required fields.",
	NotifyInvalidEmail:     "Invalid email.",
	NotifyPasswordMismatch: "Passwords do not match.",
	NotifyWeakPassword:     "Password must be at least 6 characters.",
	NotifyOffline:          "No internet connection.",
	NotifyReconnected:      "Connection restored!",
	NotifyTimeout:          "Request timed out. Try again.",
	NotifyDefaultEntity:    "item",
	NotifyDefaultAction:    "operation",
}
