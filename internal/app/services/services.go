package services

// Services defined in this package:
// - AuthService: login for alumni and school administrators
// - ConnectionService: the connection request state machine and listings
// - MessageService: direct messages behind the MessagingGate
// - GroupService: group chat membership and group messages
// - NotificationService: best-effort notifications plus the recipient read API
