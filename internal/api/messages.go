package telegram

const (
	msgAskIdentifier = `👋 Привет! Я бот для отметки визитов на торговые точки.

✍️ Для регистрации отправьте ФИО или табельный номер.`

	msgHelp = `ℹ️ Как отметить визит:

1️⃣ Отсканируйте QR-код на точке, он откроет команду /visit <код>
2️⃣ Отправьте фото точки (снимите сейчас, пересланные фото не принимаются)
3️⃣ Отправьте геопозицию

📋 Команды:
/visit <код> — начать визит
/cancel — отменить текущий визит
/help — справка`

	msgAdminHelp = `

🛠 Команды администратора:
/report [day|week|ГГГГ-ММ-ДД] — выгрузка визитов в Excel
/employees — список участников
/employee_activate <id> — включить участника
/employee_deactivate <id> — отключить участника
/shop_add <код> <название> — добавить точку`

	msgWelcomeBack      = "👋 С возвращением, %s! Отправьте /visit <код> для отметки визита."
	msgRegistered       = "✅ Регистрация завершена, %s. Теперь можно отмечать визиты командой /visit <код>."
	msgSendPhotoForShop = "📸 Визит на точку %s. Отправьте фото точки."
	msgSendLocation     = "📍 Фото принято. Теперь отправьте геопозицию."
	msgVisitSaved       = "✅ Визит на точку %s сохранён (%.0f м от целевой точки)."
	msgCancelled        = "❌ Визит отменён. Отправьте /visit <код> для нового."
	msgNothingToCancel  = "ℹ️ Отменять нечего."
	msgVisitUsage       = "ℹ️ Укажите код точки: /visit <код>"
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgUnsupported      = "❓ Такие сообщения не поддерживаются. Используйте /help для справки."

	msgExpectCommand    = "ℹ️ Чтобы отметить визит, отсканируйте QR-код точки или отправьте /visit <код>."
	msgExpectPhoto      = "📸 Сейчас нужно фото точки."
	msgExpectLocation   = "📍 Сейчас нужна геопозиция."
	msgExpectIdentifier = "✍️ Сначала завершите регистрацию: отправьте ФИО или табельный номер."
	msgForwarded        = "🚫 Пересланные фото не принимаются. Сделайте снимок на месте."
	msgOutOfFence       = "🚫 Вы в %.1f км от точки, допустимо не дальше %.0f км. Отправьте геопозицию ещё раз с места визита."
	msgNotRegistered    = "ℹ️ Вы не зарегистрированы. Отправьте /start."
	msgDeactivated      = "🚫 Ваша учётная запись отключена. Обратитесь к администратору."
	msgUnauthorized     = "🚫 Команда доступна только администраторам."
	msgInvalidArgument  = "⚠️ Неверный аргумент команды."
	msgNotFound         = "⚠️ Не найдено."
	msgInternalError    = "⚠️ Что-то пошло не так. Попробуйте ещё раз позже."

	msgReportUsage    = "ℹ️ Формат: /report [day|week|ГГГГ-ММ-ДД]"
	msgReportQueued   = "⏳ Готовлю отчёт..."
	msgReportFailed   = "⚠️ Не удалось сформировать отчёт."
	msgReportEmpty    = "ℹ️ За %s визитов нет, отправляю пустой отчёт."
	msgEmployeesEmpty = "ℹ️ Участников пока нет."
	msgEmployeeUsage  = "ℹ️ Укажите ID участника: /%s <id>"
	msgEmployeeSet    = "✅ Участник %d %s."
	msgShopUsage      = "ℹ️ Формат: /shop_add <код> <название>"
	msgShopSaved      = "✅ Точка %s сохранена: %s"

	msgAllSubmitted = "✅ Все сотрудники (%d) отметились за %s."
)
